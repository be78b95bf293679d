package platform

// Well-known message ids. The numbering is internal to the toolkit; backends
// translate their native events into these ids.
const (
	MsgNone MessageID = iota
	MsgResize
	MsgPaint
	MsgMouseDown
	MsgMouseUp
	MsgMouseMove
	MsgScroll
	MsgKeyDown
	MsgKeyUp
	MsgSetCursor
	MsgChildAdded
	MsgChildRemoved
	MsgCommand
	MsgNotify
	MsgDrawItem
	MsgFocus
	MsgClose
)

// FirstRegistered is the lowest id handed out by RegisterMessage.
const FirstRegistered MessageID = 0xC000

var messageNames = map[MessageID]string{
	MsgResize:       "resize",
	MsgPaint:        "paint",
	MsgMouseDown:    "mouse-down",
	MsgMouseUp:      "mouse-up",
	MsgMouseMove:    "mouse-move",
	MsgScroll:       "scroll",
	MsgKeyDown:      "key-down",
	MsgKeyUp:        "key-up",
	MsgSetCursor:    "set-cursor",
	MsgChildAdded:   "child-added",
	MsgChildRemoved: "child-removed",
	MsgCommand:      "command",
	MsgNotify:       "notify",
	MsgDrawItem:     "draw-item",
	MsgFocus:        "focus",
	MsgClose:        "close",
}

// String returns a readable name for logging.
func (id MessageID) String() string {
	if name, ok := messageNames[id]; ok {
		return name
	}
	if id >= FirstRegistered {
		return "registered"
	}
	return "unknown"
}

// Registered reports whether id was produced by RegisterMessage.
func (id MessageID) Registered() bool {
	return id >= FirstRegistered
}

// Pack stores two signed 32-bit values in one parameter word, hi in the
// upper half.
func Pack(hi, lo int) uint64 {
	return uint64(uint32(int32(hi)))<<32 | uint64(uint32(int32(lo)))
}

// Unpack is the inverse of Pack.
func Unpack(w uint64) (hi, lo int) {
	return int(int32(uint32(w >> 32))), int(int32(uint32(w)))
}

// Orientation of a scroll message.
const (
	ScrollVertical   = 0
	ScrollHorizontal = 1
)

// Modifier bits carried by mouse and key messages.
const (
	ModShift   uint32 = 1 << 0
	ModLock    uint32 = 1 << 1
	ModControl uint32 = 1 << 2
	ModAlt     uint32 = 1 << 3
	ModSuper   uint32 = 1 << 6
)

// Hit-test regions carried by MsgSetCursor.
const (
	HitNowhere = iota
	HitClient
	HitBorder
	HitCaption
)
