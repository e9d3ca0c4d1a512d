package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cascadia/chapter-api/model"
	"cascadia/chapter-api/security"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type chapterSeed struct {
	Slug        string   `mapstructure:"slug"`
	Name        string   `mapstructure:"name"`
	AdminEmails []string `mapstructure:"admin_emails"`
}

// Seed upserts the chapters declared in the config file and, when
// configured, a bootstrap platform admin. Chapter creation has no API
// surface, so this is the only way chapters come into existence
func Seed(d *gorm.DB, argon *security.ArgonHash) error {
	var chapters []chapterSeed
	if err := viper.UnmarshalKey("chapters", &chapters); err != nil {
		return fmt.Errorf("failed to read chapter seeds, %w", err)
	}

	for _, seed := range chapters {
		if seed.Slug == "" || seed.Name == "" {
			return fmt.Errorf("chapter seed needs both slug and name, got %+v", seed)
		}

		emails := make(model.StringSlice, 0, len(seed.AdminEmails))
		for _, e := range seed.AdminEmails {
			emails = append(emails, strings.ToLower(strings.TrimSpace(e)))
		}

		var chapter model.Chapter
		err := d.Where("slug = ?", seed.Slug).First(&chapter).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up chapter %q, %w", seed.Slug, err)
			}

			id, err := gonanoid.New(12)
			if err != nil {
				return err
			}

			chapter = model.Chapter{
				ID:          id,
				Slug:        seed.Slug,
				Name:        seed.Name,
				AdminEmails: emails,
			}

			if err := d.Create(&chapter).Error; err != nil {
				return fmt.Errorf("failed to create chapter %q, %w", seed.Slug, err)
			}

			zap.L().Info("Seeded chapter", zap.String("slug", seed.Slug))
			continue
		}

		chapter.Name = seed.Name
		chapter.AdminEmails = emails

		if err := d.Save(&chapter).Error; err != nil {
			return fmt.Errorf("failed to update chapter %q, %w", seed.Slug, err)
		}
	}

	return seedPlatformAdmin(d, argon)
}

// seedPlatformAdmin creates the configured platform admin if it doesn't
// exist yet. No sign-up path produces the PLATFORM_ADMIN role, so without
// this the role would be unreachable
func seedPlatformAdmin(d *gorm.DB, argon *security.ArgonHash) error {
	email := strings.ToLower(viper.GetString("bootstrap.admin_email"))
	if email == "" {
		return nil
	}

	var found bool
	err := d.Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ?", email).
		Find(&found).
		Error
	if err != nil {
		return fmt.Errorf("failed to check for bootstrap admin, %w", err)
	}

	if found {
		return nil
	}

	hash, err := argon.GenerateFromPassword(viper.GetString("bootstrap.admin_password"))
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap admin password, %w", err)
	}

	id, err := gonanoid.New(16)
	if err != nil {
		return err
	}

	now := time.Now()

	err = d.Create(&model.User{
		ID:                 id,
		Email:              email,
		PasswordHash:       hash,
		Name:               "Platform Admin",
		Role:               model.RolePlatformAdmin,
		VerificationStatus: model.VerificationApproved,
		VerifiedAt:         &now,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin, %w", err)
	}

	zap.L().Info("Seeded platform admin", zap.String("email", email))
	return nil
}
