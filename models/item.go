package models

// Item represents a single product entry inside a category.
// Unsynced items carry the selected image bytes (LocalBlob) and a
// process-local preview file; both disappear once the item has been
// uploaded or when the process exits. RemoteID/RemoteURL are assigned
// together by the first successful upload and never change afterwards.
type Item struct {
	ID          string `json:"id"` // stable identifier assigned at creation
	Name        string `json:"name"`
	Price       string `json:"price"` // kept exactly as entered
	Description string `json:"description"`
	RemoteID    string `json:"remoteId,omitempty"`
	RemoteURL   string `json:"remoteUrl,omitempty"`

	// Transient fields, never serialized.
	LocalBlob   []byte `json:"-"` // raw image bytes selected by the operator
	ContentType string `json:"-"` // MIME type of LocalBlob
	PreviewPath string `json:"-"` // cache path of the generated preview
}

// Synced reports whether the item already has a remote identity.
func (it *Item) Synced() bool {
	return it.RemoteID != ""
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	c := *it
	if it.LocalBlob != nil {
		c.LocalBlob = make([]byte, len(it.LocalBlob))
		copy(c.LocalBlob, it.LocalBlob)
	}
	return &c
}

// PersistentItem is the durable projection of an Item: only the fields
// that survive a restart. The blob and preview are excluded by
// construction and are reconstructed only by a fresh file selection.
type PersistentItem struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	RemoteID    string `json:"public_id"`
	RemoteURL   string `json:"imageURL"`
}

// Persistent returns the durable projection of the item.
func (it *Item) Persistent() PersistentItem {
	return PersistentItem{
		Name:        it.Name,
		Price:       it.Price,
		Description: it.Description,
		RemoteID:    it.RemoteID,
		RemoteURL:   it.RemoteURL,
	}
}

// EditableFields lists the item fields an operator may change after
// creation. Remote identity is deliberately not editable.
var EditableFields = map[string]bool{
	"name":        true,
	"price":       true,
	"description": true,
}

// FileUpload is one selected file handed to the catalog. Content is the
// raw image bytes; Filename is informational only.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}
