package nerdfonts

// Status symbols
const (
	InfoCircle          = "\uF05A"
	CheckCircle         = "\uF058"
	ExclamationCircle   = "\uF06A"
	ExclamationTriangle = "\uF071"
	Circle              = "\uF111"
	CircleDot           = "\uF192"
)

// Content and identity symbols
const (
	Clock      = "\uF017"
	Globe      = "\uF0AC"
	User       = "\uF007"
	Pencil     = "\uF040"
	Image      = "\uF03E"
	PaperPlane = "\uF1D8"
)
