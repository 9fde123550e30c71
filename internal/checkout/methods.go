package checkout

import (
	"fmt"
	"time"
)

// DetailKind tags the shape of a method's display instructions.
type DetailKind string

const (
	DetailKindBankTransfer DetailKind = "bank_transfer"
	DetailKindWallet       DetailKind = "wallet"
	DetailKindQR           DetailKind = "qr"
	DetailKindMobileWallet DetailKind = "mobile_wallet"
	DetailKindUPI          DetailKind = "upi"
)

// Details carries the static display instructions for one method kind.
type Details interface {
	Kind() DetailKind
}

// BankTransferDetails instructs a direct bank transfer.
type BankTransferDetails struct {
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	IBAN          string `json:"iban"`
	Swift         string `json:"swift"`
}

func (BankTransferDetails) Kind() DetailKind { return DetailKindBankTransfer }

// WalletDetails instructs an email-addressed wallet transfer.
type WalletDetails struct {
	Email         string `json:"email"`
	AccountNumber string `json:"accountNumber,omitempty"`
	Note          string `json:"note,omitempty"`
}

func (WalletDetails) Kind() DetailKind { return DetailKindWallet }

// QRDetails instructs a scan-to-pay transfer.
type QRDetails struct {
	Account string `json:"account"`
	Note    string `json:"note"`
}

func (QRDetails) Kind() DetailKind { return DetailKindQR }

// MobileWalletDetails instructs a phone-number wallet transfer.
type MobileWalletDetails struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

func (MobileWalletDetails) Kind() DetailKind { return DetailKindMobileWallet }

// UPIDetails instructs a UPI transfer.
type UPIDetails struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Note string `json:"note"`
}

func (UPIDetails) Kind() DetailKind { return DetailKindUPI }

// Method is one entry of the fixed payment-method catalog.
type Method struct {
	ID          string
	Name        string
	Icon        string
	Description string
	// RequiresReference marks methods whose instructions include a
	// per-attempt payment reference the buyer must quote.
	RequiresReference bool
	Details           Details
}

// methods is the fixed catalog. Order matters for display.
var methods = []Method{
	{
		ID:                "bank_transfer",
		Name:              "Bank Transfer",
		Icon:              "/images/bank.png",
		Description:       "Direct bank transfer to our account",
		RequiresReference: true,
		Details: BankTransferDetails{
			BankName:      "International Commerce Bank",
			AccountName:   "EventHorizon Tickets Ltd",
			AccountNumber: "9876543210",
			IBAN:          "ICBK0019876543210",
			Swift:         "ICBKUS33",
		},
	},
	{
		ID:          "paypal",
		Name:        "PayPal",
		Icon:        "/images/paypal.png",
		Description: "Pay with your PayPal account",
		Details: WalletDetails{
			Email: "payments@eventhorizon.com",
			Note:  "Include transaction ID in payment notes",
		},
	},
	{
		ID:                "wise",
		Name:              "Wise Transfer",
		Icon:              "/images/wise.png",
		Description:       "International money transfer",
		RequiresReference: true,
		Details: WalletDetails{
			Email:         "eventhorizon@wise.com",
			AccountNumber: "US9876543210",
		},
	},
	{
		ID:          "alipay",
		Name:        "Alipay",
		Icon:        "/images/alipay.png",
		Description: "Popular Chinese payment method",
		Details: QRDetails{
			Account: "eventhorizon@alipay.com",
			Note:    "Scan QR code to pay",
		},
	},
	{
		ID:          "wechat",
		Name:        "WeChat Pay",
		Icon:        "/images/wechat.png",
		Description: "Pay through WeChat app",
		Details: QRDetails{
			Account: "EventHorizon-Tickets",
			Note:    "Scan QR code in WeChat app",
		},
	},
	{
		ID:                "gcash",
		Name:              "GCash",
		Icon:              "/images/gcash.png",
		Description:       "Philippines mobile wallet",
		RequiresReference: true,
		Details: MobileWalletDetails{
			Number: "+639123456789",
			Name:   "EventHorizon PH",
		},
	},
	{
		ID:                "paymaya",
		Name:              "PayMaya",
		Icon:              "/images/paymaya.png",
		Description:       "Philippines digital wallet",
		RequiresReference: true,
		Details: MobileWalletDetails{
			Number: "+639987654321",
			Name:   "EventHorizon PH",
		},
	},
	{
		ID:          "upi",
		Name:        "UPI",
		Icon:        "/images/upi.png",
		Description: "Indian Unified Payments Interface",
		Details: UPIDetails{
			ID:   "eventhorizon@upi",
			Name: "EventHorizon India",
			Note: "Use any UPI app to pay",
		},
	},
}

// Methods returns the payment-method catalog.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// MethodByID looks up a catalog entry.
func MethodByID(id string) (Method, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return Method{}, false
}

// NewPaymentReference generates the reference code a buyer quotes with
// their transfer, in the EVENT-NNNNNN form.
func NewPaymentReference() string {
	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	return "EVENT-" + millis[len(millis)-6:]
}
