package model

type Document struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	StorageKey string `json:"storage_key"`
	Size       int64  `json:"size"`
	ChunkCount int    `json:"chunk_count"`
	Ctime      int64  `json:"ctime"`
}
