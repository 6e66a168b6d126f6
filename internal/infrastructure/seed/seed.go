// Package seed fills a development database with a fake catalog, coupons and gifts.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/livesale/backend/internal/domain/pricing"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options controls the size of the generated data set
type Options struct {
	Products int
	Seed     uint64 // 0 picks a random seed
	Now      time.Time
}

// Fixtures is one generated data set
type Fixtures struct {
	Products []*catalog.Product
	Coupons  []*pricing.Coupon
	Gifts    []pricing.Gift
}

// Result counts the rows actually inserted
type Result struct {
	Products int64
	Coupons  int64
	Gifts    int64
}

// Generate builds a catalog with a mix of live and bazaar products plus the
// standard coupons (flat, percentage, progressive, expired) and two gift tiers.
func Generate(opts Options) (*Fixtures, error) {
	if opts.Products <= 0 {
		opts.Products = 20
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	f := gofakeit.New(opts.Seed)

	fx := &Fixtures{Products: make([]*catalog.Product, 0, opts.Products)}
	for i := 0; i < opts.Products; i++ {
		channel := catalog.SaleChannelLive
		if i%3 == 2 {
			channel = catalog.SaleChannelBazar
		}
		price := decimal.NewFromFloat(f.Price(9.9, 399.9)).Round(2)
		product, err := catalog.NewProduct(
			fmt.Sprintf("%s-%04d", channel, i+1),
			f.ProductName(),
			price,
			f.IntRange(5, 200),
			channel,
		)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}
		fx.Products = append(fx.Products, product)
	}

	coupons, err := standardCoupons(opts.Now)
	if err != nil {
		return nil, err
	}
	fx.Coupons = coupons
	fx.Gifts = []pricing.Gift{
		{BaseEntity: shared.NewBaseEntity(), Name: "Necessaire", MinimumPurchase: decimal.NewFromInt(150), Active: true},
		{BaseEntity: shared.NewBaseEntity(), Name: "Kit de maquiagem", MinimumPurchase: decimal.NewFromInt(300), Active: true},
	}
	return fx, nil
}

func standardCoupons(now time.Time) ([]*pricing.Coupon, error) {
	upTo200 := decimal.NewFromInt(200)
	specs := []struct {
		code  string
		kind  pricing.DiscountKind
		value decimal.Decimal
		tiers []pricing.ProgressiveTier
	}{
		{code: "LIVE10", kind: pricing.DiscountPercentage, value: decimal.NewFromInt(10)},
		{code: "BAZAR15", kind: pricing.DiscountFlat, value: decimal.NewFromInt(15)},
		{code: "PROGRESSIVO", kind: pricing.DiscountProgressive, tiers: []pricing.ProgressiveTier{
			{Min: decimal.NewFromInt(100), Max: &upTo200, Percent: decimal.NewFromInt(5)},
			{Min: upTo200, Percent: decimal.NewFromInt(10)},
		}},
		{code: "VENCIDO", kind: pricing.DiscountPercentage, value: decimal.NewFromInt(50)},
	}

	coupons := make([]*pricing.Coupon, 0, len(specs))
	for _, s := range specs {
		c, err := pricing.NewCoupon(s.code, s.kind, s.value, s.tiers)
		if err != nil {
			return nil, fmt.Errorf("coupon %s: %w", s.code, err)
		}
		coupons = append(coupons, c)
	}

	expired := now.Add(-24 * time.Hour)
	coupons[3].ExpiresAt = &expired
	limit := 100
	coupons[1].UsageLimit = &limit
	return coupons, nil
}

// Load inserts fx, skipping products and coupons whose code already exists
// and gifts whose name already exists.
func Load(ctx context.Context, db *gorm.DB, fx *Fixtures, log *zap.Logger) (*Result, error) {
	res := &Result{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range fx.Products {
			r := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
				Create(models.ProductModelFromDomain(p))
			if r.Error != nil {
				return fmt.Errorf("insert product %s: %w", p.Code, r.Error)
			}
			res.Products += r.RowsAffected
		}

		for _, c := range fx.Coupons {
			r := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
				Create(models.CouponModelFromDomain(c))
			if r.Error != nil {
				return fmt.Errorf("insert coupon %s: %w", c.Code, r.Error)
			}
			res.Coupons += r.RowsAffected
		}

		for _, g := range fx.Gifts {
			var n int64
			if err := tx.Model(&models.GiftModel{}).Where("name = ?", g.Name).Count(&n).Error; err != nil {
				return fmt.Errorf("look up gift %s: %w", g.Name, err)
			}
			if n > 0 {
				continue
			}
			if err := tx.Create(models.GiftModelFromDomain(g)).Error; err != nil {
				return fmt.Errorf("insert gift %s: %w", g.Name, err)
			}
			res.Gifts++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Seed data loaded",
		zap.Int64("products", res.Products),
		zap.Int64("coupons", res.Coupons),
		zap.Int64("gifts", res.Gifts),
	)
	return res, nil
}
