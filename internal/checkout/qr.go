package checkout

import (
	"errors"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// ErrNotQRMethod reports a QR render request against a non-QR method.
var ErrNotQRMethod = errors.New("method has no QR instructions")

// InstructionQR renders the scan-to-pay PNG for a QR-based method.
func InstructionQR(method Method) ([]byte, error) {
	details, ok := method.Details.(QRDetails)
	if !ok {
		return nil, ErrNotQRMethod
	}
	return qrcode.Encode(details.Account, qrcode.Medium, qrSize)
}
