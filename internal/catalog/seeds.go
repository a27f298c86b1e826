package catalog

import "github.com/astropet/platform/internal/domain"

// NewDevSource builds the development catalog both processes run against
// when no live catalog service is configured. The fixtures mirror the
// shapes that service serves.
func NewDevSource() *StaticSource {
	s := NewStaticSource()

	s.AddItem(domain.Item{
		ID:          "star-snack",
		Name:        "Star Snack",
		Description: "A crunchy treat that restores a little health and hunger.",
		Kind:        "food",
		Effects:     map[string]int{"health": 2, "hunger": 3},
	})
	s.AddItem(domain.Item{
		ID:          "nebula-toy",
		Name:        "Nebula Toy",
		Description: "A floating puzzle toy. Pets love it.",
		Kind:        "toy",
		Effects:     map[string]int{"happiness": 4},
	})

	s.AddStore(domain.Store{
		ID:   "general",
		Name: "General Store",
		Listings: []domain.Listing{
			{
				ID:       "general-star-snack",
				ItemID:   "star-snack",
				Price:    25,
				Currency: domain.CurrencyXenocoins,
				Stock:    100,
			},
			{
				ID:       "general-nebula-toy",
				ItemID:   "nebula-toy",
				Price:    5,
				Currency: domain.CurrencyCash,
				Stock:    20,
				Requirements: domain.ListingRequirements{
					MinLevel: 3,
				},
			},
		},
	})

	s.AddCollectible(domain.Collectible{
		ID:     "comet-shard",
		Name:   "Comet Shard",
		Series: "deep-sky",
	})

	s.AddCode(domain.RedeemCode{
		Code:    "WELCOME",
		Enabled: true,
		MaxUses: 10000,
		Rewards: domain.CodeRewards{
			Xenocoins: 500,
		},
	})

	s.SetCheckInRewards([]domain.CheckInReward{
		{Day: 1, Xenocoins: 50},
		{Day: 2, Xenocoins: 75},
		{Day: 3, Xenocoins: 100},
		{Day: 4, Xenocoins: 125},
		{Day: 5, Xenocoins: 150, Cash: 1},
		{Day: 6, Xenocoins: 200},
		{Day: 7, Xenocoins: 300, Cash: 3},
	})

	return s
}
