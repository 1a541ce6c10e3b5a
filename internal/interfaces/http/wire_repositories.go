package http

import (
	"gorm.io/gorm"

	"github.com/membergate/membergate/internal/domain/discount"
	"github.com/membergate/membergate/internal/domain/level"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/domain/payment"
	"github.com/membergate/membergate/internal/infrastructure/repository"
	"github.com/membergate/membergate/internal/shared/db"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	memberRepo   member.Repository
	levelRepo    level.Repository
	discountRepo discount.Repository
	paymentRepo  payment.Repository
	tx           *db.TransactionManager
}

func newRepositories(gdb *gorm.DB) *repositories {
	return &repositories{
		memberRepo:   repository.NewMemberRepository(gdb),
		levelRepo:    repository.NewLevelRepository(gdb),
		discountRepo: repository.NewDiscountRepository(gdb),
		paymentRepo:  repository.NewPaymentRepository(gdb),
		tx:           db.NewTransactionManager(gdb),
	}
}
