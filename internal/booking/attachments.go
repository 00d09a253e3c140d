package booking

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxReferralSize is the advertised upload limit for referral documents.
// The form only documents it; the upload service enforces it.
const MaxReferralSize int64 = 5 << 20

var referralExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ReferralExtensions returns the accepted extensions in display order.
func ReferralExtensions() []string {
	return []string{".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png"}
}

// CheckReferralName verifies the file name has an accepted extension.
func CheckReferralName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := referralExtensions[ext]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedReferralType, filepath.Base(name))
	}
	return nil
}

// ReferralContentType returns the MIME type implied by the file name.
func ReferralContentType(name string) string {
	if ct, ok := referralExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
