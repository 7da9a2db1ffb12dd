// Package certificate issues completion certificates for finished courses and
// renders them as PDF.
package certificate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"lms/models"
	courseModels "lms/models/course"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotCompleted   = errors.New("course not completed yet")
	ErrUserNotFound   = errors.New("user not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrNotFound       = errors.New("certificate not found")
)

// Issued is a certificate together with what it certifies.
type Issued struct {
	Certificate courseModels.Certificate
	User        models.User
	Course      courseModels.Course
	// Created is true the first time the certificate is issued.
	Created bool
}

// Verification is the public view of a certificate.
type Verification struct {
	CertificateNumber string    `json:"certificateNumber"`
	FullName          string    `json:"fullName"`
	CourseTitle       string    `json:"courseTitle"`
	IssuedAt          time.Time `json:"issuedAt"`
}

type Issuer struct {
	db        *gorm.DB
	publicURL string
}

// NewIssuer returns an Issuer whose verification links start at publicURL.
func NewIssuer(db *gorm.DB, publicURL string) *Issuer {
	return &Issuer{db: db, publicURL: strings.TrimRight(publicURL, "/")}
}

// VerifyURL is the public link for a certificate number.
func (i *Issuer) VerifyURL(number string) string {
	return i.publicURL + "/api/v1/certificates/" + number
}

// Issue returns the user's certificate for courseID, creating it on first
// call. The user's progress must be completed.
func (i *Issuer) Issue(ctx context.Context, userID, courseID uint) (*Issued, error) {
	out := &Issued{}

	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_deleted = ?", userID, false).First(&out.User).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var progress courseModels.CourseProgress
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !progress.IsCompleted) {
			return ErrNotCompleted
		}
		if err != nil {
			return err
		}

		if err := tx.Where("id = ? AND is_deleted = ?", courseID, false).First(&out.Course).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		cert := courseModels.Certificate{
			UserID:            userID,
			CourseID:          courseID,
			CertificateNumber: newNumber(),
			IssuedAt:          time.Now(),
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&cert)
		if res.Error != nil {
			return fmt.Errorf("creating certificate: %w", res.Error)
		}
		out.Created = res.RowsAffected == 1

		if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&out.Certificate).Error; err != nil {
			return fmt.Errorf("loading certificate: %w", err)
		}

		url := i.VerifyURL(out.Certificate.CertificateNumber)
		if progress.CertificateURL != url {
			if err := tx.Model(&progress).Update("certificate_url", url).Error; err != nil {
				return fmt.Errorf("saving certificate url: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Verify looks a certificate up by its number.
func (i *Issuer) Verify(ctx context.Context, number string) (*Verification, error) {
	db := i.db.WithContext(ctx)

	var cert courseModels.Certificate
	if err := db.Where("certificate_number = ?", strings.ToUpper(strings.TrimSpace(number))).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user models.User
	if err := db.Unscoped().First(&user, cert.UserID).Error; err != nil {
		return nil, fmt.Errorf("loading certificate holder: %w", err)
	}
	var course courseModels.Course
	if err := db.Unscoped().First(&course, cert.CourseID).Error; err != nil {
		return nil, fmt.Errorf("loading certified course: %w", err)
	}

	return &Verification{
		CertificateNumber: cert.CertificateNumber,
		FullName:          user.FullName,
		CourseTitle:       course.Title,
		IssuedAt:          cert.IssuedAt,
	}, nil
}

func newNumber() string {
	return "LMS-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

// RenderPDF writes a landscape A4 certificate to w.
func RenderPDF(w io.Writer, issued *Issued) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Certificate of Completion", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	// gold border
	pdf.SetDrawColor(255, 215, 0)
	pdf.SetLineWidth(7)
	pdf.Rect(3.5, 3.5, pageW-7, pageH-7, "D")

	line := func(size float64, style string, r, g, b int, text string, height float64) {
		pdf.SetFont("Helvetica", style, size)
		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(0, height, tr(text), "", 1, "C", false, 0, "")
	}

	pdf.SetY(35)
	line(40, "B", 0, 0, 0, "Certificate of Completion", 22)
	pdf.Ln(6)
	line(22, "", 0, 0, 0, "This is to certify that", 14)
	pdf.Ln(4)
	line(32, "B", 35, 32, 247, issued.User.FullName, 18)
	pdf.Ln(4)
	line(22, "", 0, 0, 0, "has successfully completed the course", 14)
	pdf.Ln(4)
	line(30, "B", 35, 32, 247, issued.Course.Title, 18)
	pdf.Ln(8)
	line(18, "", 0, 0, 0, "Date: "+issued.Certificate.IssuedAt.Format("January 2, 2006"), 12)

	pdf.SetY(pageH - 25)
	line(10, "", 90, 90, 90, "Certificate No. "+issued.Certificate.CertificateNumber, 6)

	return pdf.Output(w)
}
