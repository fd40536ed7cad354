package models

// UploadResult is the remote identity assigned by the external store
// once an item's binary content has been durably uploaded.
type UploadResult struct {
	RemoteID  string `json:"remoteId"`
	RemoteURL string `json:"remoteUrl"`
}

// StoredObject is one entry of a remote folder listing.
type StoredObject struct {
	RemoteID  string `json:"remoteId"`
	RemoteURL string `json:"remoteUrl"`
	Format    string `json:"format"`
}

// UploadFailure records a single item whose upload failed during a sync
// pass. The pass continues past it; the item stays unsynced and will be
// retried on the next pass.
type UploadFailure struct {
	Category string `json:"category"`
	Index    int    `json:"index"`
	ItemID   string `json:"itemId"`
	Reason   string `json:"reason"`
}

// SyncResult is the aggregate report of one sync pass over the catalog.
type SyncResult struct {
	Uploaded int             `json:"uploaded"`
	Skipped  int             `json:"skipped"`
	Failed   int             `json:"failed"`
	Failures []UploadFailure `json:"failures,omitempty"`
}
