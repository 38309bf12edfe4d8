package petitions

import "time"

// Petition is one classified petition document.
type Petition struct {
	ID            string
	FileName      string
	StorageKey    string
	Dependencia   string
	Confianza     string
	Motivo        string
	PalabrasClave []string
	Model         string
	TextLength    int
	TextPreview   string
	Method        string
	Reduced       bool
	SizeBytes     int64
	CreatedAt     time.Time
}
