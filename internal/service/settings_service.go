package service

import (
	"context"
	"encoding/json"

	"timologio/internal/model"
	"timologio/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const passwordMask = "********"

// --- DTOs ---

type SettingsResponse struct {
	VATSource       string `json:"vat_source"`
	AADEUser        string `json:"aade_user"`
	AADEPass        string `json:"aade_pass"` // always masked on read
	AutofillEnabled string `json:"autofill_enabled"`
}

type UpdateSettingsRequest struct {
	VATSource       string  `json:"vat_source" binding:"omitempty,oneof=aade vies none"`
	AADEUser        *string `json:"aade_user"`
	AADEPass        *string `json:"aade_pass"`
	AutofillEnabled string  `json:"autofill_enabled" binding:"omitempty,oneof=yes no"`
}

type SettingsService interface {
	GetSettings(ctx context.Context) (*SettingsResponse, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest, userID string) (*SettingsResponse, error)
}

type settingsService struct {
	db   *gorm.DB
	repo repository.SettingRepository
}

func NewSettingsService(db *gorm.DB, repo repository.SettingRepository) SettingsService {
	return &settingsService{db: db, repo: repo}
}

// --- Implementation ---

func (s *settingsService) GetSettings(ctx context.Context) (*SettingsResponse, error) {
	values, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := &SettingsResponse{
		VATSource:       values[model.SettingVATSource],
		AADEUser:        values[model.SettingAADEUser],
		AutofillEnabled: values[model.SettingAutofillEnabled],
	}
	if resp.VATSource == "" {
		resp.VATSource = model.VATSourceVIES
	}
	if resp.AutofillEnabled == "" {
		resp.AutofillEnabled = "yes"
	}
	if values[model.SettingAADEPass] != "" {
		resp.AADEPass = passwordMask
	}
	return resp, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, req UpdateSettingsRequest, userID string) (*SettingsResponse, error) {
	if req.VATSource != "" {
		if err := s.repo.Set(ctx, model.SettingVATSource, req.VATSource); err != nil {
			return nil, err
		}
	}
	if req.AADEUser != nil {
		if err := s.repo.Set(ctx, model.SettingAADEUser, *req.AADEUser); err != nil {
			return nil, err
		}
	}
	if req.AADEPass != nil && *req.AADEPass != passwordMask {
		if err := s.repo.Set(ctx, model.SettingAADEPass, *req.AADEPass); err != nil {
			return nil, err
		}
	}
	if req.AutofillEnabled != "" {
		if err := s.repo.Set(ctx, model.SettingAutofillEnabled, req.AutofillEnabled); err != nil {
			return nil, err
		}
	}

	s.writeAuditLog(ctx, userID, req)

	return s.GetSettings(ctx)
}

// writeAuditLog records a settings change without the credential values.
func (s *settingsService) writeAuditLog(ctx context.Context, userID string, req UpdateSettingsRequest) {
	if s.db == nil {
		return
	}

	redacted := map[string]string{"vat_source": req.VATSource, "autofill_enabled": req.AutofillEnabled}
	if req.AADEUser != nil {
		redacted["aade_user"] = *req.AADEUser
	}
	if req.AADEPass != nil {
		redacted["aade_pass"] = passwordMask
	}
	detailsJSON, _ := json.Marshal(redacted)

	entry := model.AuditLog{
		Action:  model.ActionUpdateSettings,
		Details: string(detailsJSON),
	}
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}
	_ = s.db.WithContext(ctx).Create(&entry).Error
}
