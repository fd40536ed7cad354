package service

// PreviewServiceInterface defines the contract for process-local item
// previews. A preview exists only while its owning item holds unsynced
// bytes; it is never persisted and is released with the item.
type PreviewServiceInterface interface {
	Materialize(itemID string, content []byte) (string, error)
	Read(path string) ([]byte, error)
	Release(path string)
}
