package database

import (
	"errors"
	"fmt"

	"proxyvet/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultHistoryPageSize = 50

// UpsertProxyForUser stores the proxy if it is new and associates it with
// the user either way. Identity is the content hash, so re-checking the
// same address never duplicates rows.
func UpsertProxyForUser(proxy domain.Proxy, userID uint) (domain.Proxy, error) {
	if len(proxy.Hash) == 0 {
		proxy.GenerateHash()
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		var existing domain.Proxy
		err := tx.Where("hash = ?", proxy.Hash).First(&existing).Error
		switch {
		case err == nil:
			proxy = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&proxy).Error; err != nil {
				return fmt.Errorf("create proxy: %w", err)
			}
		default:
			return fmt.Errorf("lookup proxy: %w", err)
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Table("user_proxies").
			Create(map[string]any{"user_id": userID, "proxy_id": proxy.ID}).Error
	})

	return proxy, err
}

func SaveCheckResult(result *domain.CheckResult) error {
	return DB.Create(result).Error
}

// UpdateProxyVerdict records the latest classifier and geo verdicts on the
// stored proxy row.
func UpdateProxyVerdict(proxyID uint64, static bool, country, estimatedType string) error {
	updates := map[string]any{"static": static}
	if country != "" {
		updates["country"] = country
	}
	if estimatedType != "" {
		updates["estimated_type"] = estimatedType
	}

	return DB.Model(&domain.Proxy{}).Where("id = ?", proxyID).Updates(updates).Error
}

func userProxyIDs(userID uint) *gorm.DB {
	return DB.Table("user_proxies").Select("proxy_id").Where("user_id = ?", userID)
}

// GetCheckHistoryPage returns the user's check results, newest first, with
// the total count for pagination.
func GetCheckHistoryPage(userID uint, page, pageSize int) ([]domain.CheckResult, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultHistoryPageSize
	}

	query := DB.Model(&domain.CheckResult{}).
		Where("proxy_id IN (?)", userProxyIDs(userID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []domain.CheckResult
	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&results).Error

	return results, total, err
}

func GetCheckResultCount(userID uint) int64 {
	var total int64
	DB.Model(&domain.CheckResult{}).
		Where("proxy_id IN (?)", userProxyIDs(userID)).
		Count(&total)
	return total
}

// GetProxiesForRecheck returns every stored proxy that at least one user
// still holds, for the background revalidation loop.
func GetProxiesForRecheck() ([]domain.Proxy, error) {
	var proxies []domain.Proxy
	err := DB.
		Where("id IN (?)", DB.Table("user_proxies").Select("proxy_id")).
		Find(&proxies).Error
	return proxies, err
}
