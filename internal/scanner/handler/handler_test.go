package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clicker/internal/scanner"
	"clicker/internal/scanner/handler"
	"clicker/pkg/testutil"
)

func newRouter(t *testing.T, simulator handler.CardPresenter) (chi.Router, *scanner.Barcode) {
	t.Helper()
	barcode := scanner.NewBarcode(1)
	h := handler.New(barcode, simulator, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterAdmin(r)
	return r, barcode
}

func TestBarcode(t *testing.T) {
	r, barcode := newRouter(t, nil)

	testutil.Given(t, "the scanner is disabled", func(t *testing.T) {
		testutil.Then(t, "scans are dropped", func(t *testing.T) {
			rec := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/scanner/barcode",
				map[string]string{"data": "S0000001I"}))
			testutil.AssertError(t, rec, http.StatusConflict, "conflict")
		})
	})

	testutil.Given(t, "the scanner is enabled", func(t *testing.T) {
		barcode.Enable()

		testutil.When(t, "a padded scan arrives", func(t *testing.T) {
			rec := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/scanner/barcode",
				map[string]string{"data": " S0000001I "}))
			require.Equal(t, http.StatusAccepted, rec.Code)

			testutil.Then(t, "the trimmed value is delivered", func(t *testing.T) {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				raw, err := barcode.Next(ctx)
				require.NoError(t, err)
				assert.Equal(t, "S0000001I", raw)
			})
		})

		testutil.When(t, "the scan is blank", func(t *testing.T) {
			rec := testutil.DoRequest(r, testutil.NewRawRequest(http.MethodPost, "/scanner/barcode", `{"data":"  "}`))
			testutil.AssertError(t, rec, http.StatusUnprocessableEntity, "validation_error")
		})
	})
}

func TestPresentCard(t *testing.T) {
	testutil.Given(t, "no simulator", func(t *testing.T) {
		r, _ := newRouter(t, nil)

		testutil.Then(t, "the card route is not mounted", func(t *testing.T) {
			rec := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/scanner/cards",
				map[string]string{"can_id": "1001000200030004"}))
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	})

	testutil.Given(t, "a simulated reader", func(t *testing.T) {
		sim := scanner.NewSimulated()
		r, _ := newRouter(t, sim)

		testutil.When(t, "a card is presented", func(t *testing.T) {
			rec := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/scanner/cards",
				map[string]string{"tag_id": "tag-1", "can_id": "1001 0002 0003 0004"}))
			require.Equal(t, http.StatusAccepted, rec.Code)

			testutil.Then(t, "the reader sees the tag", func(t *testing.T) {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				tag, err := sim.WaitForCard(ctx)
				require.NoError(t, err)
				assert.Equal(t, "tag-1", tag.ID)
			})
		})

		testutil.When(t, "the CAN ID is malformed", func(t *testing.T) {
			rec := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/scanner/cards",
				map[string]string{"can_id": "xyz"}))
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	})
}
