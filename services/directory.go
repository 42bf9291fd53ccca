package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/arogyam/health-portal/config"
	"github.com/arogyam/health-portal/models"
	"github.com/arogyam/health-portal/redis"
)

const (
	syncFailedKey   = "doctor_sync:failed"
	lastSyncedAtKey = "doctor_sync:last_synced_at"
)

// DirectoryDoctor is one entry of the external directory feed.
type DirectoryDoctor struct {
	ExternalID    string `json:"external_id"`
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
	Specialty     string `json:"specialty"`
	Status        string `json:"status"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

// DirectoryClient fetches the full doctor list from the external source of
// truth with a bounded timeout.
type DirectoryClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewDirectoryClient() *DirectoryClient {
	return &DirectoryClient{
		BaseURL:    config.DirectoryURL(),
		HTTPClient: &http.Client{Timeout: config.DirectoryTimeout()},
	}
}

// Fetch returns the current external directory. Every failure mode collapses
// to ErrSyncUnavailable; the caller keeps serving its previous snapshot.
func (c *DirectoryClient) Fetch(ctx context.Context) ([]DirectoryDoctor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return nil, models.ErrSyncUnavailable
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, models.ErrSyncUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.ErrSyncUnavailable
	}

	var doctors []DirectoryDoctor
	if err := json.NewDecoder(resp.Body).Decode(&doctors); err != nil {
		return nil, models.ErrSyncUnavailable
	}
	return doctors, nil
}

// SyncDoctors fetches the external directory and upserts it by external id.
// Existing doctors are updated in place, new ones inserted, doctors absent
// from the fetch are left untouched. The fetch runs before the transaction so
// no lock is held on the doctors table while waiting on the network.
func SyncDoctors(ctx context.Context, dbh *gorm.DB, client *DirectoryClient) (int, error) {
	doctors, err := client.Fetch(ctx)
	if err != nil {
		markSyncFailed()
		return 0, err
	}

	err = dbh.Transaction(func(tx *gorm.DB) error {
		for _, d := range doctors {
			var existing models.Doctor
			res := tx.Where("external_id = ?", d.ExternalID).First(&existing)
			if res.Error != nil {
				if res.Error != gorm.ErrRecordNotFound {
					return res.Error
				}
				doc := models.Doctor{
					ExternalID:    d.ExternalID,
					Name:          d.Name,
					LicenseNumber: d.LicenseNumber,
					Specialty:     d.Specialty,
					Status:        models.NormalizeDoctorStatus(d.Status),
					Email:         d.Email,
					Phone:         d.Phone,
				}
				if err := tx.Create(&doc).Error; err != nil {
					return err
				}
				continue
			}
			existing.Name = d.Name
			existing.LicenseNumber = d.LicenseNumber
			existing.Specialty = d.Specialty
			existing.Status = models.NormalizeDoctorStatus(d.Status)
			existing.Email = d.Email
			existing.Phone = d.Phone
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	markSyncOK()
	return len(doctors), nil
}

// SyncFailed reports whether the last sync attempt failed. Listings carry this
// flag so callers know they may be looking at a stale snapshot.
func SyncFailed() bool {
	if redis.Client == nil {
		return false
	}
	v, err := redis.Client.Get(redis.Ctx, syncFailedKey).Result()
	if err != nil {
		return false
	}
	return v == "1"
}

// LastSyncedAt returns the time of the last successful sync, zero if unknown.
func LastSyncedAt() time.Time {
	if redis.Client == nil {
		return time.Time{}
	}
	v, err := redis.Client.Get(redis.Ctx, lastSyncedAtKey).Result()
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func markSyncFailed() {
	if redis.Client == nil {
		return
	}
	if err := redis.Client.Set(redis.Ctx, syncFailedKey, "1", 0).Err(); err != nil {
		log.Printf("Failed to record sync failure flag: %v", err)
	}
}

func markSyncOK() {
	if redis.Client == nil {
		return
	}
	if err := redis.Client.Set(redis.Ctx, syncFailedKey, "0", 0).Err(); err != nil {
		log.Printf("Failed to clear sync failure flag: %v", err)
	}
	if err := redis.Client.Set(redis.Ctx, lastSyncedAtKey, time.Now().UTC().Format(time.RFC3339), 0).Err(); err != nil {
		log.Printf("Failed to record last sync time: %v", err)
	}
}
