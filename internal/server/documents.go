package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
)

func (s *Server) ListInvoices(c *gin.Context) {
	invoices, err := s.documentSvc.ListInvoices(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req documentdomain.CreateDocumentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}

	inv, err := s.documentSvc.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	inv, err := s.documentSvc.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (s *Server) LockInvoice(c *gin.Context) {
	inv, err := s.documentSvc.LockInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (s *Server) CancelInvoice(c *gin.Context) {
	inv, err := s.documentSvc.CancelInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (s *Server) PreviewInvoice(c *gin.Context) {
	rendered, err := s.documentSvc.PreviewInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", rendered)
}

func (s *Server) ListQuotations(c *gin.Context) {
	quotations, err := s.documentSvc.ListQuotations(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotations": quotations})
}

func (s *Server) CreateQuotation(c *gin.Context) {
	var req documentdomain.CreateDocumentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}

	q, err := s.documentSvc.CreateQuotation(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (s *Server) GetQuotationByID(c *gin.Context) {
	q, err := s.documentSvc.GetQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) LockQuotation(c *gin.Context) {
	q, err := s.documentSvc.LockQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) AcceptQuotation(c *gin.Context) {
	q, err := s.documentSvc.AcceptQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) DenyQuotation(c *gin.Context) {
	q, err := s.documentSvc.DenyQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) ConvertQuotation(c *gin.Context) {
	inv, err := s.documentSvc.ConvertQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (s *Server) PreviewQuotation(c *gin.Context) {
	rendered, err := s.documentSvc.PreviewQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", rendered)
}

func (s *Server) AddItem(c *gin.Context) {
	var req documentdomain.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.documentSvc.AddItem(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) UpdateItem(c *gin.Context) {
	var req documentdomain.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.documentSvc.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) DeleteItem(c *gin.Context) {
	if err := s.documentSvc.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GetAttachment(c *gin.Context) {
	att, err := s.documentSvc.GetAttachment(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+att.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", att.Data)
}
