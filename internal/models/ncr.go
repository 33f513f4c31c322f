package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// NCRRecordStatus is the QA lifecycle status of a persisted NCR line.
type NCRRecordStatus string

const (
	NCROpen           NCRRecordStatus = "Open"
	NCRClosed         NCRRecordStatus = "Closed"
	NCRSettledOnField NCRRecordStatus = "Settled_OnField"
)

// Item decisions. FieldSettlement means the issue was resolved on site and the
// item never enters the collection pipeline.
const (
	DecisionFieldSettlement = "FieldSettlement"
	DecisionReturn          = "Return"
)

// NCRHeader carries the report-level facts shared by every item on a
// non-conformance report.
type NCRHeader struct {
	NCRNumber string `json:"ncrNumber"`
	Date      string `json:"date"`
	Founder   string `json:"founder"`
	Branch    string `json:"branch"`
	ToDept    string `json:"toDept"`
	CopyTo    string `json:"copyTo"`
	PONo      string `json:"poNo"`

	CausePackaging bool   `json:"causePackaging"`
	CauseTransport bool   `json:"causeTransport"`
	CauseOperation bool   `json:"causeOperation"`
	CauseEnv       bool   `json:"causeEnv"`
	CauseDetail    string `json:"causeDetail"`

	PreventionDetail  string `json:"preventionDetail"`
	PreventionDueDate string `json:"preventionDueDate"`

	ResponsiblePerson   string `json:"responsiblePerson"`
	ResponsiblePosition string `json:"responsiblePosition"`
	DueDate             string `json:"dueDate"`
	Approver            string `json:"approver"`
	ApproverPosition    string `json:"approverPosition"`
	ApproverDate        string `json:"approverDate"`

	QAAccept bool   `json:"qaAccept"`
	QAReject bool   `json:"qaReject"`
	QAReason string `json:"qaReason"`
}

// HasCause reports whether at least one root-cause category is ticked.
func (h NCRHeader) HasCause() bool {
	return h.CausePackaging || h.CauseTransport || h.CauseOperation || h.CauseEnv
}

// NCRItem is one non-conforming product line on a report.
type NCRItem struct {
	ItemID       string  `json:"itemId"`
	ProductCode  string  `json:"productCode"`
	ProductName  string  `json:"productName"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Branch       string  `json:"branch"`
	CustomerName string  `json:"customerName"`
	Category     string  `json:"category"`

	RefNo      string `json:"refNo"`
	NeoRefNo   string `json:"neoRefNo"`
	DocumentNo string `json:"documentNo"`
	TMNo       string `json:"tmNo"`
	InvoiceNo  string `json:"invoiceNo"`

	Problems         []ProblemKind `json:"problems"`
	ProblemOtherText string        `json:"problemOtherText"`
	ProblemDetail    string        `json:"problemDetail"`
	ProblemSource    string        `json:"problemSource"`

	ProblemAnalysis       string `json:"problemAnalysis"`
	ProblemAnalysisSub    string `json:"problemAnalysisSub"`
	ProblemAnalysisCause  string `json:"problemAnalysisCause"`
	ProblemAnalysisDetail string `json:"problemAnalysisDetail"`

	Actions []ActionEntry `json:"actions"`

	// Decision is DecisionFieldSettlement or DecisionReturn; Return items flow
	// into the operations hub as COL_JobAccepted records.
	Decision         string `json:"decision"`
	PreliminaryRoute string `json:"preliminaryRoute"`
	RouteOtherText   string `json:"routeOtherText"`

	FieldSettled            bool    `json:"fieldSettled"`
	FieldSettlementAmount   float64 `json:"fieldSettlementAmount"`
	FieldSettlementEvidence string  `json:"fieldSettlementEvidence"`
	FieldSettlementName     string  `json:"fieldSettlementName"`
	FieldSettlementPosition string  `json:"fieldSettlementPosition"`

	Amount       float64 `json:"amount"`
	PriceBill    float64 `json:"priceBill"`
	PricePerUnit float64 `json:"pricePerUnit"`

	HasCost         bool    `json:"hasCost"`
	CostAmount      float64 `json:"costAmount"`
	CostResponsible string  `json:"costResponsible"`

	Images []string `json:"images"`
}

// Status derives the QA status of this item line. Field settlement is
// per-item; QA acceptance lives on the shared header.
func (i NCRItem) Status(h NCRHeader) NCRRecordStatus {
	if i.FieldSettled {
		return NCRSettledOnField
	}
	if h.QAAccept {
		return NCRClosed
	}
	return NCROpen
}

// NCRRecord is the persisted form of one NCR item line. The domain model is
// header-owns-items; the storage row keeps the composite id so exports and
// legacy readers keep working.
type NCRRecord struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	NCRNumber string          `gorm:"index" json:"ncrNumber"`
	Status    NCRRecordStatus `gorm:"index" json:"status"`

	Header datatypes.JSONType[NCRHeader] `gorm:"type:jsonb" json:"header"`
	Item   datatypes.JSONType[NCRItem]   `gorm:"type:jsonb" json:"item"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for NCRRecord model
func (NCRRecord) TableName() string {
	return "ncr_records"
}

// NCRRecordID builds the composite row id for an item line on a report.
func NCRRecordID(ncrNumber, itemID string) string {
	return fmt.Sprintf("%s-%s", ncrNumber, itemID)
}
