package campaigns

import (
	"sync"
	"time"

	"reviewback/internal/gateway/convomat"
)

type cachedCampaign struct {
	campaign *convomat.Campaign
	cachedAt time.Time
}

// Cache keeps gateway campaign descriptors warm; verification, payout and
// the public campaign page all fetch the same descriptors repeatedly.
type Cache struct {
	store sync.Map // map[int64]*cachedCampaign
	ttl   time.Duration
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl}
}

func (c *Cache) Get(id int64) (*convomat.Campaign, bool) {
	val, ok := c.store.Load(id)
	if !ok {
		return nil, false
	}

	entry := val.(*cachedCampaign)
	if time.Since(entry.cachedAt) > c.ttl {
		c.store.Delete(id)
		return nil, false
	}

	return entry.campaign, true
}

func (c *Cache) Set(id int64, campaign *convomat.Campaign) {
	c.store.Store(id, &cachedCampaign{
		campaign: campaign,
		cachedAt: time.Now(),
	})
}
