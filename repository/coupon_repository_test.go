package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/sawyelin1011/mtc-platform/repository"
)

func TestIncrementUsedCount_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCouponRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "coupons" SET "used_count"=used_count + 1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.IncrementUsedCount(context.Background(), uuid.New())
	assert.NoError(t, err)
}

func TestIncrementUsedCount_LimitReached(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCouponRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "coupons" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.IncrementUsedCount(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestFindByCode_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCouponRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coupons"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	coupon, err := repo.FindByCode(context.Background(), uuid.New(), "MISSING")
	assert.Error(t, err)
	assert.Nil(t, coupon)
}
