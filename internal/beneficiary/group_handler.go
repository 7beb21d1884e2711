package beneficiary

import (
	"errors"
	"strings"

	"dernek-backend/internal/apperr"
	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GroupMemberRequest struct {
	BeneficiaryType models.BeneficiaryType `json:"beneficiary_type"`
	BeneficiaryID   uint                   `json:"beneficiary_id"`
}

type CreateGroupRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Members     []GroupMemberRequest `json:"members"`
}

type UpdateGroupRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Members     *[]GroupMemberRequest `json:"members"` // verilirse tamamen değiştirilir
}

type GroupResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Members     []Resolved `json:"members"`
}

func groupToResponse(db *gorm.DB, g *models.BeneficiaryGroup) GroupResponse {
	members := make([]Resolved, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, Resolve(db, m.BeneficiaryType, m.BeneficiaryID))
	}
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Members:     members,
	}
}

func validateMembers(db *gorm.DB, members []GroupMemberRequest) error {
	for _, m := range members {
		if err := Exists(db, m.BeneficiaryType, m.BeneficiaryID); err != nil {
			return err
		}
	}
	return nil
}

// POST /api/beneficiary-groups
func CreateGroupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateGroupRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}

		if err := validateMembers(database.DB, body.Members); err != nil {
			if errors.Is(err, apperr.ErrValidation) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Üyeler doğrulanamadı")
		}

		group := models.BeneficiaryGroup{
			Name:        body.Name,
			Description: body.Description,
		}
		for _, m := range body.Members {
			group.Members = append(group.Members, models.BeneficiaryGroupMember{
				BeneficiaryType: m.BeneficiaryType,
				BeneficiaryID:   m.BeneficiaryID,
			})
		}

		if err := database.DB.Create(&group).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Grup oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(groupToResponse(database.DB, &group))
	}
}

// GET /api/beneficiary-groups
func ListGroupsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var groups []models.BeneficiaryGroup
		if err := database.DB.Preload("Members").Order("name asc").Find(&groups).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gruplar listelenemedi")
		}

		res := make([]GroupResponse, 0, len(groups))
		for i := range groups {
			res = append(res, groupToResponse(database.DB, &groups[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/beneficiary-groups/:id
func GetGroupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var group models.BeneficiaryGroup
		if err := database.DB.Preload("Members").First(&group, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Grup bulunamadı")
		}
		return c.JSON(groupToResponse(database.DB, &group))
	}
}

// PUT /api/beneficiary-groups/:id
// Members verilirse delete-then-reinsert ile tamamen değiştirilir.
func UpdateGroupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var group models.BeneficiaryGroup
		if err := database.DB.First(&group, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Grup bulunamadı")
		}

		var body UpdateGroupRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			group.Name = name
		}
		if body.Description != nil {
			group.Description = *body.Description
		}

		if body.Members != nil {
			if err := validateMembers(database.DB, *body.Members); err != nil {
				if errors.Is(err, apperr.ErrValidation) {
					return fiber.NewError(fiber.StatusBadRequest, err.Error())
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Üyeler doğrulanamadı")
			}
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&group).Error; err != nil {
				return err
			}
			if body.Members != nil {
				if err := tx.Delete(&models.BeneficiaryGroupMember{}, "beneficiary_group_id = ?", group.ID).Error; err != nil {
					return err
				}
				for _, m := range *body.Members {
					member := models.BeneficiaryGroupMember{
						BeneficiaryGroupID: group.ID,
						BeneficiaryType:    m.BeneficiaryType,
						BeneficiaryID:      m.BeneficiaryID,
					}
					if err := tx.Create(&member).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Grup güncellenemedi")
		}

		if err := database.DB.Preload("Members").First(&group, "id = ?", group.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Grup okunamadı")
		}
		return c.JSON(groupToResponse(database.DB, &group))
	}
}

// DELETE /api/beneficiary-groups/:id
func DeleteGroupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var group models.BeneficiaryGroup
		if err := database.DB.First(&group, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Grup bulunamadı")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.BeneficiaryGroupMember{}, "beneficiary_group_id = ?", group.ID).Error; err != nil {
				return err
			}
			return tx.Delete(&group).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Grup silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
