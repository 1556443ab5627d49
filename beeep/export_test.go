package beeep

// NewWithFunc returns a Notifier that delivers through f.
func NewWithFunc(f func(title, message, icon string) error) *Notifier {
	return &Notifier{notify: f}
}
