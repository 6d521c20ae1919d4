package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/zonewise/api/internal/config"
	"github.com/zonewise/api/internal/models"
)

// Recipient is one candidate lot that could absorb transferred development
// rights, with how much capacity it has left.
type Recipient struct {
	PropertyID             string  `json:"propertyId"`
	Address                string  `json:"address"`
	CurrentFAR             float64 `json:"currentFar"`
	MaxFAR                 float64 `json:"maxFar"`
	AdditionalPotentialFAR float64 `json:"additionalPotentialFar"`
	AdditionalPotentialSF  float64 `json:"additionalPotentialSf"`
	LotAreaSF              float64 `json:"lotAreaSf"`
}

// RecipientCandidate pairs an adjacent property with its own allowed bonus
// FAR, resolved by the caller from the candidate's zoning links.
type RecipientCandidate struct {
	Property models.Property
	MaxFAR   float64
}

// AirRightsSummary is the air rights analyzer's result. Recipients is ranked
// by additional buildable square footage descending and populated only when
// the source lot has unused FAR to convey.
type AirRightsSummary struct {
	FARUtilized        float64     `json:"farUtilized"`
	FARWithBonus       float64     `json:"farWithBonus"`
	UnusedFAR          float64     `json:"unusedFar"`
	TransferableFAR    float64     `json:"transferableFar"`
	TransferableSF     float64     `json:"transferableSf"`
	PricePerSF         float64     `json:"pricePerSf"`
	EstimatedValueUSD  float64     `json:"estimatedValueUsd"`
	AdjacentCandidates int         `json:"adjacentCandidates"`
	Recipients         []Recipient `json:"recipients"`
}

// ComputeAirRights values the unused development rights of a lot.
//
// Unused FAR is the gap between the share-weighted bonus FAR and the FAR the
// existing building already consumes, floored at zero. The transferable share
// applies the configured fraction, and the dollar estimate prices the
// transferable square footage with PricePerSF. A lot at or above its maximum
// yields zeros and an empty recipient list, not an error.
//
// Returns ErrInvalidLandArea when the lot records a non-positive land area.
func ComputeAirRights(p models.Property, farWithBonus float64, districtCodes []string, candidates []RecipientCandidate, cfg config.AnalysisConfig) (*AirRightsSummary, error) {
	if p.LandAreaSF <= 0 {
		return nil, fmt.Errorf("%w: got %g sf", ErrInvalidLandArea, p.LandAreaSF)
	}

	summary := &AirRightsSummary{
		FARUtilized:  p.FARUtilized(),
		FARWithBonus: farWithBonus,
		PricePerSF:   PricePerSF(p.Borough, districtCodes, cfg),
		Recipients:   []Recipient{},
	}

	unused := farWithBonus - summary.FARUtilized
	if unused <= 0 {
		return summary, nil
	}

	summary.UnusedFAR = unused
	summary.TransferableFAR = unused * cfg.TransferFraction
	summary.TransferableSF = summary.TransferableFAR * p.LandAreaSF
	summary.EstimatedValueUSD = summary.TransferableSF * summary.PricePerSF
	summary.AdjacentCandidates, summary.Recipients = rankRecipients(candidates, cfg.MaxRecipients)

	return summary, nil
}

// rankRecipients filters candidates to those with capacity to grow, orders
// them by additional buildable square footage descending, and caps the list.
// The returned count is the number of qualifying candidates before the cap.
func rankRecipients(candidates []RecipientCandidate, limit int) (int, []Recipient) {
	recipients := make([]Recipient, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Property.LandAreaSF <= 0 {
			continue
		}
		current := cand.Property.FARUtilized()
		additional := cand.MaxFAR - current
		if additional <= 0 {
			continue
		}
		recipients = append(recipients, Recipient{
			PropertyID:             cand.Property.ID.String(),
			Address:                cand.Property.Address,
			CurrentFAR:             current,
			MaxFAR:                 cand.MaxFAR,
			AdditionalPotentialFAR: additional,
			AdditionalPotentialSF:  additional * cand.Property.LandAreaSF,
			LotAreaSF:              cand.Property.LandAreaSF,
		})
	}

	sort.SliceStable(recipients, func(i, j int) bool {
		return recipients[i].AdditionalPotentialSF > recipients[j].AdditionalPotentialSF
	})

	qualifying := len(recipients)
	if limit > 0 && qualifying > limit {
		recipients = recipients[:limit]
	}
	return qualifying, recipients
}

// PricePerSF quotes the market rate for transferred development rights from
// the configured price book: the borough's $/sf (or the base price for an
// unrecognized borough), multiplied up when any governing district code
// carries a premium prefix. Rounded to cents.
func PricePerSF(borough string, districtCodes []string, cfg config.AnalysisConfig) float64 {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(borough)), " ", "_")
	price, ok := cfg.BoroughPricePerSF[key]
	if !ok {
		price = cfg.BasePricePerSF
	}

	if hasPremiumDistrict(districtCodes, cfg.PremiumPrefixes) {
		price *= cfg.PremiumMultiplier
	}

	return math.Round(price*100) / 100
}

func hasPremiumDistrict(districtCodes, prefixes []string) bool {
	for _, code := range districtCodes {
		for _, prefix := range prefixes {
			if prefix != "" && strings.HasPrefix(code, prefix) {
				return true
			}
		}
	}
	return false
}

// TransferSimulation quotes one hypothetical transfer of development rights.
type TransferSimulation struct {
	TransferSF              float64 `json:"transferSf"`
	PricePerSF              float64 `json:"pricePerSf"`
	TransferValueUSD        float64 `json:"transferValueUsd"`
	RemainingTransferableSF float64 `json:"remainingTransferableSf"`
	RecipientNewBuildableSF float64 `json:"recipientNewBuildableSf"`
}

// SimulateTransfer prices moving requestSF square feet of development rights
// out of a source lot summarized by source. recipientBuildableSF is the
// recipient's current buildable envelope, used to report its post-transfer
// size. Returns ErrInvalidTransfer when the request is non-positive or
// exceeds what the source can convey.
func SimulateTransfer(source AirRightsSummary, recipientBuildableSF, requestSF float64) (*TransferSimulation, error) {
	if requestSF <= 0 {
		return nil, fmt.Errorf("%w: transfer amount must be positive, got %g sf", ErrInvalidTransfer, requestSF)
	}
	if requestSF > source.TransferableSF {
		return nil, fmt.Errorf("%w: requested %g sf exceeds transferable %g sf", ErrInvalidTransfer, requestSF, source.TransferableSF)
	}

	return &TransferSimulation{
		TransferSF:              requestSF,
		PricePerSF:              source.PricePerSF,
		TransferValueUSD:        requestSF * source.PricePerSF,
		RemainingTransferableSF: source.TransferableSF - requestSF,
		RecipientNewBuildableSF: recipientBuildableSF + requestSF,
	}, nil
}
