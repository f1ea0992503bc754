package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	companydomain "github.com/smallfirm/facture/internal/company/domain"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
)

func (s *Server) GetCompanyInfo(c *gin.Context) {
	info, err := s.companyRepo.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// SaveCompanyInfo upserts the singleton row. Counters are not writable
// through the API: they only move inside finalize transactions.
func (s *Server) SaveCompanyInfo(c *gin.Context) {
	var req companydomain.CompanyInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	existing, err := s.companyRepo.Get(c.Request.Context())
	switch {
	case err == nil:
		req.ID = existing.ID
		req.InvoiceIndex = existing.InvoiceIndex
		req.QuotationIndex = existing.QuotationIndex
	case errors.Is(err, companydomain.ErrMissingCompanyInfo):
		req.ID = s.genID.Generate()
		req.InvoiceIndex = 0
		req.QuotationIndex = 0
	default:
		AbortWithError(c, err)
		return
	}

	if err := s.companyRepo.Save(c.Request.Context(), &req); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) ListCustomers(c *gin.Context) {
	customers, err := s.documents.ListCustomers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req documentdomain.Customer
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req.ID = s.genID.Generate()
	if err := s.documents.CreateCustomer(c.Request.Context(), &req); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}
