package activity

// Payload is one of the result payload types below. The set is closed: only
// types in this package implement it.
type Payload interface {
	payload()
}

// WifiResult is returned by the wifi selection screen.
type WifiResult struct {
	Connected bool
	SSID      string
	IP        string
}

// KeyboardResult is returned by the on-screen keyboard.
type KeyboardResult struct {
	Text string
}

// MenuResult is returned by option menus. Action is the index of the chosen
// option, -1 when nothing was chosen.
type MenuResult struct {
	Action      int
	Orientation uint8
}

// ChapterResult is returned by the chapter picker.
type ChapterResult struct {
	SpineIndex int
}

// PercentResult is returned by the percent slider.
type PercentResult struct {
	Percent int
}

// PageResult is returned by the page picker.
type PageResult struct {
	Page uint32
}

// SyncResult is returned by the progress sync screen.
type SyncResult struct {
	SpineIndex int
	Page       int
}

// FileResult is returned by file pickers.
type FileResult struct {
	Path string
}

// NetworkMode selects how the device joins a network.
type NetworkMode int

const (
	NetworkModeJoin NetworkMode = iota // Join an existing network
	NetworkModeHotspot                 // Create an access point
)

// NetworkModeResult is returned by the network mode chooser.
type NetworkModeResult struct {
	Mode NetworkMode
}

func (WifiResult) payload()        {}
func (KeyboardResult) payload()    {}
func (MenuResult) payload()        {}
func (ChapterResult) payload()     {}
func (PercentResult) payload()     {}
func (PageResult) payload()        {}
func (SyncResult) payload()        {}
func (NetworkModeResult) payload() {}
func (FileResult) payload()        {}

// Result is what a finished activity hands back to the activity that
// launched it. It is a value type and is copied across the boundary.
type Result struct {
	Cancelled bool
	Data      Payload // nil when the activity returned no payload
}

// NewResult wraps a payload in a non-cancelled result.
func NewResult(p Payload) Result {
	return Result{Data: p}
}

// Cancelled returns a result flagged as cancelled, without payload.
func Cancelled() Result {
	return Result{Cancelled: true}
}

// IsEmpty reports whether the result carries no payload.
func (r Result) IsEmpty() bool {
	return r.Data == nil
}

// PayloadAs extracts the payload of type T from r.
func PayloadAs[T Payload](r Result) (T, bool) {
	v, ok := r.Data.(T)
	return v, ok
}

// Menu returns the menu payload, if any.
func (r Result) Menu() (MenuResult, bool) {
	return PayloadAs[MenuResult](r)
}

// Percent returns the percent payload, if any.
func (r Result) Percent() (PercentResult, bool) {
	return PayloadAs[PercentResult](r)
}

// File returns the file payload, if any.
func (r Result) File() (FileResult, bool) {
	return PayloadAs[FileResult](r)
}

// Keyboard returns the keyboard payload, if any.
func (r Result) Keyboard() (KeyboardResult, bool) {
	return PayloadAs[KeyboardResult](r)
}

// ResultHandler receives the result of an activity started for a result.
type ResultHandler func(Result)
