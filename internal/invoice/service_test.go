package invoice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func TestService_ListTemplates(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *invoice.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					ListTemplates(gomock.Any()).
					Return([]invoice.Template{{ID: 1, Name: "Monthly"}, {ID: 2, Name: "Retainer"}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "RepoError",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					ListTemplates(gomock.Any()).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := invoice.NewService(repo).ListTemplates(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Open(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *invoice.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetPayload(gomock.Any(), int64(4)).Return(samplePayload(), nil)
			},
		},
		{
			name: "NotFound",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetPayload(gomock.Any(), int64(4)).Return(nil, invoice.ErrNotFound)
			},
			wantErr: invoice.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			tt.setupMock(repo)

			sheet, err := invoice.NewService(repo).Open(context.Background(), 4)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sheet)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, invoice.ModeView, sheet.Mode())
			require.NotNil(t, sheet.TemplateID)
			assert.Equal(t, int64(4), *sheet.TemplateID)
			assert.Len(t, sheet.Items(), 1)
		})
	}
}

func TestService_SaveTemplate_FillsTemplateID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	tmpl := invoice.Template{ID: 12, Name: "Retainer"}
	p := samplePayload()

	repo.EXPECT().
		SaveTemplate(gomock.Any(), tmpl, p).
		DoAndReturn(func(_ context.Context, _ invoice.Template, got *invoice.Payload) error {
			require.NotNil(t, got.TemplateID)
			assert.Equal(t, int64(12), *got.TemplateID)

			return nil
		})

	require.NoError(t, invoice.NewService(repo).SaveTemplate(context.Background(), tmpl, p))
}

func TestService_Preview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := invoice.NewService(invoice.NewMockRepository(ctrl))

	sheet, err := svc.Preview(samplePayload(), invoice.Overrides{
		TaxPercent: new(dec("10")),
		Durations:  map[int64]decimal.Decimal{3: dec("5")},
		Expenses: map[int64][]invoice.Expense{
			3: {{Label: "Travel", Amount: dec("1000")}, {}},
		},
		Drafts: map[int64]invoice.Expense{3: {Label: "Meals", Amount: dec("200")}},
	})
	require.NoError(t, err)

	assert.Equal(t, invoice.ModeView, sheet.Mode())
	assert.Len(t, sheet.Saved(3), 1)
	assert.Equal(t, "Meals", sheet.Draft(3).Label)

	totals := sheet.Totals()
	assertDecimal(t, "151200", totals.Subtotal)
	assertDecimal(t, "15120", totals.Tax)
	assertDecimal(t, "166320", totals.Grand)
}

func TestService_Preview_UnknownItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := invoice.NewService(invoice.NewMockRepository(ctrl))

	_, err := svc.Preview(samplePayload(), invoice.Overrides{
		Expenses: map[int64][]invoice.Expense{42: {{Label: "Travel", Amount: dec("1")}}},
	})
	assert.ErrorIs(t, err, invoice.ErrNotFound)
}
