package userController

import (
	"bytes"
	"errors"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/services/certificate"
	"lms/utils"
	"lms/validators"
	"log"

	"github.com/gofiber/fiber/v2"
)

func certificateIssuer() *certificate.Issuer {
	return certificate.NewIssuer(database.Database.Db, config.AppConfig.PublicURL)
}

// DownloadCertificate issues the certificate for a completed course on first
// request and streams it as a PDF.
func DownloadCertificate(c *fiber.Ctx) error {
	courseID, ok := validators.ParamID(c, "courseId")
	if !ok {
		return middleware.ValidationErrorResponse(c, map[string]string{"courseId": "Invalid course ID!"})
	}

	issuer := certificateIssuer()
	issued, err := issuer.Issue(c.UserContext(), middleware.CurrentUserID(c), courseID)
	switch {
	case errors.Is(err, certificate.ErrNotCompleted):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course not completed yet!", nil)
	case errors.Is(err, certificate.ErrUserNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	case errors.Is(err, certificate.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case err != nil:
		log.Printf("[CERTIFICATE] Issue for user %d course %d failed: %v", middleware.CurrentUserID(c), courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}

	if issued.Created {
		log.Printf("[CERTIFICATE] Issued %s to user %d for course %d", issued.Certificate.CertificateNumber, issued.User.ID, courseID)
		utils.SendCertificateIssuedEmail(issued.User.Email, issued.User.FullName, issued.Course.Title, issuer.VerifyURL(issued.Certificate.CertificateNumber))
	}

	var buf bytes.Buffer
	if err := certificate.RenderPDF(&buf, issued); err != nil {
		log.Printf("[CERTIFICATE] Rendering %s failed: %v", issued.Certificate.CertificateNumber, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=certificate-%d.pdf", courseID))
	return c.Send(buf.Bytes())
}

// VerifyCertificate is the public lookup behind the link printed in emails.
func VerifyCertificate(c *fiber.Ctx) error {
	v, err := certificateIssuer().Verify(c.UserContext(), c.Params("number"))
	if errors.Is(err, certificate.ErrNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}
	if err != nil {
		log.Printf("[CERTIFICATE] Verify %s failed: %v", c.Params("number"), err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid.", v)
}
