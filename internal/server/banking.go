package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	bankingdomain "github.com/smallfirm/facture/internal/banking/domain"
)

func (s *Server) ListBankAccounts(c *gin.Context) {
	accounts, err := s.bankingSvc.ListAccounts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (s *Server) SyncBankAccounts(c *gin.Context) {
	results, err := s.bankingSvc.Sync(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) ListBankTransactions(c *gin.Context) {
	txs, err := s.bankingSvc.ListTransactions(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (s *Server) ListRevenues(c *gin.Context) {
	revenues, err := s.bankingSvc.ListRevenues(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenues": revenues})
}

func (s *Server) CreateRevenue(c *gin.Context) {
	var req bankingdomain.CreateRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rev, err := s.bankingSvc.CreateRevenue(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rev)
}

func (s *Server) ListPurchases(c *gin.Context) {
	purchases, err := s.bankingSvc.ListPurchases(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

func (s *Server) CreatePurchase(c *gin.Context) {
	var req bankingdomain.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	p, err := s.bankingSvc.CreatePurchase(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}
