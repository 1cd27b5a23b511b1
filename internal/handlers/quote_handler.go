package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "grana/internal/errors"
	"grana/internal/models"
	"grana/internal/services"
)

// QuoteHandler serves current asset prices.
type QuoteHandler struct {
	quoteService services.QuoteGetter
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteService services.QuoteGetter) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// ListQuotes returns the current price for every supported asset type, or
// for the comma-separated subset in the types query parameter.
// @Summary     List quotes
// @Description Get the current price in centavos for every supported asset type
// @Tags        quotes
// @Produce     json
// @Security    BearerAuth
// @Param       types query string false "Comma-separated asset types"
// @Success     200 {object} map[string]quotes.Quote "Quotes by asset type"
// @Failure     400 {object} ErrorResponse "Unknown asset type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	types := models.AllAssetTypes
	if raw := c.Query("types"); raw != "" {
		types = nil
		for _, part := range strings.Split(raw, ",") {
			assetType := models.AssetType(strings.TrimSpace(part))
			if !isKnownAssetType(assetType) {
				respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown asset type"))
				return
			}
			types = append(types, assetType)
		}
	}

	result := h.quoteService.GetMultipleQuotes(c.Request.Context(), types)
	c.JSON(http.StatusOK, gin.H{"quotes": result})
}

// GetQuote returns the current price for one asset type.
// @Summary     Get a quote
// @Description Get the current price in centavos for one asset type
// @Tags        quotes
// @Produce     json
// @Security    BearerAuth
// @Param       type path string true "Asset type"
// @Success     200 {object} quotes.Quote "Quote"
// @Failure     400 {object} ErrorResponse "Unknown asset type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /quotes/{type} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	assetType := models.AssetType(c.Param("type"))
	if !isKnownAssetType(assetType) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown asset type"))
		return
	}

	quote := h.quoteService.GetQuote(c.Request.Context(), assetType)
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

func isKnownAssetType(t models.AssetType) bool {
	for _, known := range models.AllAssetTypes {
		if known == t {
			return true
		}
	}
	return false
}
