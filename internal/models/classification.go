package models

// ProblemKind classifies what is wrong with a returned item. The set replaces
// the older one-boolean-per-checkbox shape; a record carries zero or more
// kinds plus optional free text for ProblemOther.
type ProblemKind string

const (
	ProblemWrongSpec ProblemKind = "WRONG_SPEC"
	ProblemDamaged   ProblemKind = "DAMAGED"
	ProblemExpired   ProblemKind = "EXPIRED"
	ProblemWrongItem ProblemKind = "WRONG_ITEM"
	ProblemShortage  ProblemKind = "SHORTAGE"
	ProblemQuality   ProblemKind = "QUALITY"
	ProblemOther     ProblemKind = "OTHER"
)

// ActionKind classifies the immediate handling decided for a returned item.
type ActionKind string

const (
	ActionReturn     ActionKind = "RETURN"
	ActionExchange   ActionKind = "EXCHANGE"
	ActionCreditNote ActionKind = "CREDIT_NOTE"
	ActionDiscard    ActionKind = "DISCARD"
	ActionRepair     ActionKind = "REPAIR"
	ActionAccept     ActionKind = "ACCEPT_AS_IS"
)

// ActionEntry is one concrete handling step attached to an item. Quantity may
// be partial; Method and Reason are free text.
type ActionEntry struct {
	Kind     ActionKind `json:"kind"`
	Quantity float64    `json:"quantity,omitempty"`
	Method   string     `json:"method,omitempty"`
	Reason   string     `json:"reason,omitempty"`
}

// Display labels for form rendering and printed reports. Thai first because
// the printed NCR form is bilingual with Thai as the primary language.
var problemLabelsTH = map[ProblemKind]string{
	ProblemWrongSpec: "ผิดสเปค",
	ProblemDamaged:   "ชำรุดเสียหาย",
	ProblemExpired:   "หมดอายุ",
	ProblemWrongItem: "ส่งผิดรายการ",
	ProblemShortage:  "จำนวนขาด",
	ProblemQuality:   "คุณภาพไม่ผ่าน",
	ProblemOther:     "อื่นๆ",
}

var problemLabelsEN = map[ProblemKind]string{
	ProblemWrongSpec: "Wrong specification",
	ProblemDamaged:   "Damaged",
	ProblemExpired:   "Expired",
	ProblemWrongItem: "Wrong item shipped",
	ProblemShortage:  "Quantity shortage",
	ProblemQuality:   "Quality failure",
	ProblemOther:     "Other",
}

var actionLabelsTH = map[ActionKind]string{
	ActionReturn:     "ส่งคืน",
	ActionExchange:   "เปลี่ยนสินค้า",
	ActionCreditNote: "ลดหนี้",
	ActionDiscard:    "ทำลาย",
	ActionRepair:     "ซ่อมแซม",
	ActionAccept:     "รับไว้ตามสภาพ",
}

var actionLabelsEN = map[ActionKind]string{
	ActionReturn:     "Return to supplier",
	ActionExchange:   "Exchange",
	ActionCreditNote: "Credit note",
	ActionDiscard:    "Discard",
	ActionRepair:     "Repair",
	ActionAccept:     "Accept as-is",
}

// ProblemLabel returns the display label for a problem kind in the given
// language ("th" or "en"). Unknown kinds fall back to the raw value.
func ProblemLabel(k ProblemKind, lang string) string {
	var label string
	if lang == "th" {
		label = problemLabelsTH[k]
	} else {
		label = problemLabelsEN[k]
	}
	if label == "" {
		return string(k)
	}
	return label
}

// ActionLabel returns the display label for an action kind in the given
// language ("th" or "en"). Unknown kinds fall back to the raw value.
func ActionLabel(k ActionKind, lang string) string {
	var label string
	if lang == "th" {
		label = actionLabelsTH[k]
	} else {
		label = actionLabelsEN[k]
	}
	if label == "" {
		return string(k)
	}
	return label
}
