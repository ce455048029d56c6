package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/nominationd/internal/contract"
	"github.com/fyrsmithlabs/nominationd/internal/store"
)

// ContentResponse carries generated message text.
type ContentResponse struct {
	Content string `json:"content"`
}

// handleSendContent renders the notification message for a single nomination.
// The message is only renderable when the configured company is the obligated
// party; the counterparty's obligations are not ours to send.
func (s *Server) handleSendContent(c echo.Context) error {
	nom, company, err := s.nominationAndCompany(c)
	if err != nil {
		return err
	}

	isCompanySender := (company == nom.Buyer && nom.Party == contract.PartyBuyer) ||
		(company == nom.Seller && nom.Party == contract.PartySeller)
	if !isCompanySender {
		return echo.NewHTTPError(http.StatusBadRequest, "it's not the nomination for the company to send")
	}

	receiver := nom.Buyer
	if company == nom.Buyer {
		receiver = nom.Seller
	}

	content := fmt.Sprintf("Dear %s\n\n"+
		"We hereby nominate the %s and reserve our rights to renominate as per agreed terms.\n\n"+
		"Please kindly confirm receipt.\nBest Regards, %s",
		receiver, nom.Keyword, company)

	return c.JSON(http.StatusOK, ContentResponse{Content: content})
}

// handleSendAllContent renders the bulk notification skeleton for a
// nomination's arrival period. The per-item values are filled in by the
// operator before sending.
func (s *Server) handleSendAllContent(c echo.Context) error {
	nom, company, err := s.nominationAndCompany(c)
	if err != nil {
		return err
	}

	receiver := nom.Buyer
	if company == nom.Buyer {
		receiver = nom.Seller
	}

	content := fmt.Sprintf("Dear %s\n\n"+
		"Please note that we hereby nominate the following:\n"+
		"• Cargo Quantity:  \"EMPTY\"\n"+
		"• LNG Ship: \"EMPTY\"\n"+
		"• Arrival Period: %s\n"+
		"• Loading/Discharge Port \"EMPTY\"\n\n"+
		"and reserve our rights to renominate as per agreed terms.\n"+
		"Best Regards, %s",
		receiver, nom.ArrivalPeriod.Time().Format("Mon Jan 02 2006"), company)

	return c.JSON(http.StatusOK, ContentResponse{Content: content})
}

// nominationAndCompany loads the nomination from the path parameter and the
// configured company name; either missing is a 404.
func (s *Server) nominationAndCompany(c echo.Context) (*store.Nomination, string, error) {
	ctx := c.Request().Context()

	nom, err := s.store.Get(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	company, err := s.store.GetSetting(ctx, store.SettingCompanyName)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	return nom, company, nil
}
