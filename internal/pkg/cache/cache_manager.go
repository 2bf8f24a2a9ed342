package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
)

// identityTTL bounds how long a decoded token is remembered. Identity is a
// pure function of the token, so the TTL only limits memory.
const identityTTL = 15 * time.Minute

// CacheManager holds all application caches
type CacheManager struct {
	// Identities maps Key(token) to the identity decoded from it.
	Identities *UnifiedCache[models.Identity]
}

// NewCacheManager creates a new cache manager with default TTLs
func NewCacheManager(logger *zap.Logger) *CacheManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheManager{
		Identities: NewUnifiedCache[models.Identity](identityTTL, "identities", logger),
	}
}

// GetAllMetrics returns metrics for all caches
func (cm *CacheManager) GetAllMetrics() map[string]CacheMetrics {
	return map[string]CacheMetrics{
		"identities": cm.Identities.GetMetrics(),
	}
}

// ClearAll clears all caches. It runs on shutdown so no decoded identity
// outlives the server.
func (cm *CacheManager) ClearAll() {
	cm.Identities.Clear()
}
