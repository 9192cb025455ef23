package entity

import "time"

// CustomInputDef defines one template-level custom field a document must be
// filled with when instantiated.
type CustomInputDef struct {
	Key      string `firestore:"key" json:"key"`
	Label    string `firestore:"label" json:"label"`
	Type     string `firestore:"type" json:"type"` // string, number, date, boolean
	Required bool   `firestore:"required" json:"required"`
	Order    int    `firestore:"order" json:"order"`
}

// PrintSettings controls how a rendered document is laid out for print.
// Margins are in millimeters.
type PrintSettings struct {
	PageSize     string `firestore:"pageSize,omitempty" json:"page_size,omitempty"`
	Orientation  string `firestore:"orientation,omitempty" json:"orientation,omitempty"`
	MarginTop    int    `firestore:"marginTop,omitempty" json:"margin_top,omitempty"`
	MarginRight  int    `firestore:"marginRight,omitempty" json:"margin_right,omitempty"`
	MarginBottom int    `firestore:"marginBottom,omitempty" json:"margin_bottom,omitempty"`
	MarginLeft   int    `firestore:"marginLeft,omitempty" json:"margin_left,omitempty"`
	HeaderText   string `firestore:"headerText,omitempty" json:"header_text,omitempty"`
	FooterText   string `firestore:"footerText,omitempty" json:"footer_text,omitempty"`
	Watermark    string `firestore:"watermark,omitempty" json:"watermark,omitempty"`
	ShowQR       bool   `firestore:"showQr" json:"show_qr"`
	ShowLogo     bool   `firestore:"showLogo" json:"show_logo"`
	CompanyName  string `firestore:"companyName,omitempty" json:"company_name,omitempty"`
	DocumentName string `firestore:"documentName,omitempty" json:"document_name,omitempty"`
}

// Template is the reusable placeholder-bearing content definition a document
// is instantiated from.
type Template struct {
	ID            string           `firestore:"-" json:"id"`
	Name          string           `firestore:"name" json:"name"`
	Content       string           `firestore:"content" json:"content"`
	CustomInputs  []CustomInputDef `firestore:"customInputs" json:"custom_inputs"`
	IsActive      bool             `firestore:"isActive" json:"is_active"`
	IsDeletable   *bool            `firestore:"isDeletable,omitempty" json:"is_deletable,omitempty"`
	PrintSettings PrintSettings    `firestore:"printSettings" json:"print_settings"`
	CreatedAt     time.Time        `firestore:"createdAt" json:"created_at"`
	UpdatedAt     time.Time        `firestore:"updatedAt" json:"updated_at"`
}

// DeletionAllowed reports whether documents of this template may be deleted.
// Only an explicit false forbids deletion.
func (t *Template) DeletionAllowed() bool {
	return t.IsDeletable == nil || *t.IsDeletable
}
