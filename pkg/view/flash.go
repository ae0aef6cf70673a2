package view

type FlashKind string

const (
	FlashInfo    FlashKind = "info"
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Flash is the one-shot banner carried across a redirect.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Class is the banner's CSS modifier.
func (f Flash) Class() string {
	switch f.Kind {
	case FlashSuccess:
		return "flash-ok"
	case FlashError:
		return "flash-bad"
	case FlashWarning:
		return "flash-warn"
	default:
		return "flash-info"
	}
}

