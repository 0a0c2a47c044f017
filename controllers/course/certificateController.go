package controllers

import (
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

type certificateResponse struct {
	courseModels.Certificate
	CourseTitle string `json:"course_title"`
}

// GetCourseCertificate issues the caller's certificate for a fully completed
// course, or returns the one already issued.
func GetCourseCertificate(c *fiber.Ctx) error {
	courseID, _ := c.Locals("course_id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	cert, created, err := certificateService().IssueCertificate(c.UserContext(), user.ID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	status, message := fiber.StatusOK, "Certificate fetched successfully!"
	if created {
		status, message = fiber.StatusCreated, "Certificate issued successfully!"
		utils.SendCertificateEmail(user.Email, user.FullName(), cert.Course.Title, cert.CertificateNumber)
	}
	return middleware.JsonResponse(c, status, true, message, certificateResponse{
		Certificate: *cert,
		CourseTitle: cert.Course.Title,
	})
}

// GetUserCertificates lists the caller's certificates.
func GetUserCertificates(c *fiber.Ctx) error {
	certs, err := certificateService().ListCertificates(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	out := make([]certificateResponse, len(certs))
	for i, cert := range certs {
		out[i] = certificateResponse{Certificate: cert, CourseTitle: cert.Course.Title}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", out)
}
