package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

var now = time.Date(2025, 4, 2, 10, 0, 0, 0, time.Local)

func newTestService(repo Repository) *Service {
	s := NewService(repo)
	s.now = func() time.Time { return now }

	n := 0
	s.newID = func() string {
		n++
		return "ast-" + string(rune('a'+n-1))
	}

	return s
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    AssetParams
		setupMock func(m *MockRepository)
		want      model.Asset
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Defaults",
			params: AssetParams{Name: "  Canon R5 ", Category: "Camera"},
			setupMock: func(m *MockRepository) {
				m.EXPECT().AddAsset(gomock.Any(), gomock.Any()).Return(nil)
			},
			want: model.Asset{
				ID:           "ast-a",
				Name:         "Canon R5",
				Category:     "Camera",
				Quantity:     1,
				Condition:    model.ConditionGood,
				PurchaseDate: model.Day(now),
				CreatedAt:    now,
			},
		},
		{
			name:    "MissingName",
			params:  AssetParams{Name: " "},
			wantErr: model.ErrValidation,
		},
		{
			name:    "NegativeQuantity",
			params:  AssetParams{Name: "Tripod", Quantity: -2},
			wantErr: model.ErrValidation,
		},
		{
			name:    "UnknownCondition",
			params:  AssetParams{Name: "Tripod", Condition: "broken"},
			wantErr: model.ErrValidation,
		},
		{
			name:   "RepoError",
			params: AssetParams{Name: "Tripod"},
			setupMock: func(m *MockRepository) {
				m.EXPECT().AddAsset(gomock.Any(), gomock.Any()).Return(model.ErrTransport)
			},
			wantErr: model.ErrTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := newTestService(repo).Create(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.Equal(t, tt.want.Quantity, got.Quantity)
			assert.Equal(t, tt.want.Condition, got.Condition)
			assert.True(t, tt.want.PurchaseDate.Equal(got.PurchaseDate))
			assert.True(t, tt.want.CreatedAt.Equal(got.CreatedAt))
		})
	}
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepository(ctrl)
	repo.EXPECT().
		UpdateAsset(gomock.Any(), "ast-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, patch storage.AssetPatch) error {
			assert.Equal(t, "Sony A7IV", *patch.Name)
			assert.Equal(t, model.ConditionMissing, *patch.Condition)
			assert.Nil(t, patch.PurchaseDate)
			assert.True(t, decimal.NewFromInt(2500).Equal(*patch.Value))

			return nil
		})

	err := newTestService(repo).Update(context.Background(), "ast-1", AssetParams{
		Name:      "Sony A7IV",
		Condition: model.ConditionMissing,
		Value:     decimal.NewFromInt(2500),
	})
	require.NoError(t, err)
}

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepository(ctrl)
	repo.EXPECT().Assets(gomock.Any()).Return([]model.Asset{{ID: "x", Name: "Godox SL60D"}}, nil)

	var added []string
	repo.EXPECT().
		AddAsset(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a model.Asset) error {
			added = append(added, a.Name)
			return nil
		}).
		Times(2)

	n, err := newTestService(repo).Import(context.Background(), []AssetParams{
		{Name: "godox sl60d "},
		{Name: "Camera A7IV Body", Quantity: 1},
		{Name: "NP-FZ100 Sony Battery", Quantity: 2},
		{Name: "np-fz100 sony battery", Quantity: 1},
		{Name: ""},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"Camera A7IV Body", "NP-FZ100 Sony Battery"}, added)
}

func TestService_ImportStopsOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepository(ctrl)
	repo.EXPECT().Assets(gomock.Any()).Return(nil, nil)
	repo.EXPECT().AddAsset(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().AddAsset(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	n, err := newTestService(repo).Import(context.Background(), []AssetParams{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}
