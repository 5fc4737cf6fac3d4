// internal/services/price_service.go
package services

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/skillset/skillset-backend/internal/config"
)

// PriceService looks up the SKILL token price from the Orca API. It
// fails soft: any error yields a nil price, never an error to the
// caller.
type PriceService struct {
	client  *http.Client
	baseURL string
	mint    string
}

func NewPriceService(cfg *config.Config) *PriceService {
	return &PriceService{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: cfg.Price.OrcaBaseURL,
		mint:    cfg.Price.SkillMint,
	}
}

func (s *PriceService) SkillPrice() *float64 {
	url := fmt.Sprintf("%s/v2/solana/tokens/%s", s.baseURL, s.mint)

	resp, err := s.client.Get(url)
	if err != nil {
		logrus.WithError(err).Warn("SKILL price lookup failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).Warn("SKILL price lookup returned non-OK status")
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logrus.WithError(err).Warn("SKILL price response read failed")
		return nil
	}

	value := gjson.GetBytes(body, "data.priceUsdc")
	if !value.Exists() {
		return nil
	}

	price := value.Float()
	return &price
}
