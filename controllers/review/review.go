package reviewController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	reviewValidator "lms/validators/review"

	"github.com/gofiber/fiber/v2"
)

type reviewResponse struct {
	models.Review
	Username string `json:"username"`
}

// CourseReviews lists a course's reviews, newest first.
func CourseReviews(c *fiber.Ctx) error {
	courseID, _ := c.Locals("course_id").(uint)
	page, _ := c.Locals("page").(int)
	limit, _ := c.Locals("limit").(int)
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Review{}).Where("course_id = ? AND is_deleted = ?", courseID, false)

	var total int64
	db.Count(&total)

	var reviews []models.Review
	if err := db.Preload("User").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	response := make([]reviewResponse, len(reviews))
	for i, r := range reviews {
		response[i] = reviewResponse{Review: r, Username: r.User.Username}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", fiber.Map{
		"reviews": response,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// SubmitReview adds the caller's review for a course; one per user and course.
func SubmitReview(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReview").(*reviewValidator.ReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	courseID, _ := c.Locals("course_id").(uint)
	userID := middleware.CurrentUserID(c)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course not found.", nil)
	}

	var existing int64
	db.Model(&models.Review{}).Where("course_id = ? AND user_id = ?", courseID, userID).Count(&existing)
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You have already reviewed this course.", nil)
	}

	review := models.Review{
		CourseID: course.ID,
		UserID:   userID,
		Rating:   reqData.Rating,
		Comment:  reqData.Comment,
	}
	if err := db.Create(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully!", review)
}

func GetReview(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)
	review, err := findReview(id)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found.", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review fetched!", reviewResponse{Review: *review, Username: review.User.Username})
}

func UpdateReview(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReview").(*reviewValidator.UpdateReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	id, _ := c.Locals("id").(uint)

	review, err := findReview(id)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found.", nil)
	}
	if review.UserID != middleware.CurrentUserID(c) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only modify your own review.", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Rating != nil {
		updates["rating"] = *reqData.Rating
	}
	if reqData.Comment != nil {
		updates["comment"] = *reqData.Comment
	}
	if len(updates) > 0 {
		if err := database.Database.Db.Model(review).Updates(updates).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review!", nil)
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully!", review)
}

// DeleteReview removes the row outright so the author may review again.
func DeleteReview(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)

	review, err := findReview(id)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found.", nil)
	}
	if review.UserID != middleware.CurrentUserID(c) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only modify your own review.", nil)
	}

	if err := database.Database.Db.Unscoped().Delete(review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete review!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully!", nil)
}

func findReview(id uint) (*models.Review, error) {
	var review models.Review
	if err := database.Database.Db.Preload("User").Where("id = ? AND is_deleted = ?", id, false).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}
