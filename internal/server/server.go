// Package server exposes the HTTP API: document lifecycle, company
// configuration and bank reconciliation.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallfirm/facture/internal/banking"
	bankingdomain "github.com/smallfirm/facture/internal/banking/domain"
	"github.com/smallfirm/facture/internal/company"
	companydomain "github.com/smallfirm/facture/internal/company/domain"
	"github.com/smallfirm/facture/internal/config"
	"github.com/smallfirm/facture/internal/document"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
	"github.com/smallfirm/facture/internal/metrics"
	"github.com/smallfirm/facture/internal/numbering"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	company.Module,
	document.Module,
	banking.Module,
	numbering.Module,
	metrics.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	documentSvc documentdomain.Service
	documents   documentdomain.Repository
	bankingSvc  bankingdomain.Service
	companyRepo companydomain.Repository
	genID       *snowflake.Node
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	DocumentSvc documentdomain.Service
	Documents   documentdomain.Repository
	BankingSvc  bankingdomain.Service
	CompanyRepo companydomain.Repository
	GenID       *snowflake.Node
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Gin,
		documentSvc: p.DocumentSvc,
		documents:   p.Documents,
		bankingSvc:  p.BankingSvc,
		companyRepo: p.CompanyRepo,
		genID:       p.GenID,
	}
	s.registerAPIRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.POST("/invoices/:id/lock", s.LockInvoice)
	api.POST("/invoices/:id/cancel", s.CancelInvoice)
	api.GET("/invoices/:id/preview", s.PreviewInvoice)

	// -------- Quotations --------
	api.GET("/quotations", s.ListQuotations)
	api.POST("/quotations", s.CreateQuotation)
	api.GET("/quotations/:id", s.GetQuotationByID)
	api.POST("/quotations/:id/lock", s.LockQuotation)
	api.POST("/quotations/:id/accept", s.AcceptQuotation)
	api.POST("/quotations/:id/deny", s.DenyQuotation)
	api.POST("/quotations/:id/convert", s.ConvertQuotation)
	api.GET("/quotations/:id/preview", s.PreviewQuotation)

	// -------- Line items --------
	api.POST("/items", s.AddItem)
	api.PATCH("/items/:id", s.UpdateItem)
	api.DELETE("/items/:id", s.DeleteItem)

	// -------- Attachments --------
	api.GET("/attachments/:id", s.GetAttachment)

	// -------- Company --------
	api.GET("/company", s.GetCompanyInfo)
	api.PUT("/company", s.SaveCompanyInfo)
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)

	// -------- Banking --------
	api.GET("/bank/accounts", s.ListBankAccounts)
	api.POST("/bank/sync", s.SyncBankAccounts)
	api.GET("/bank/transactions", s.ListBankTransactions)
	api.GET("/revenues", s.ListRevenues)
	api.POST("/revenues", s.CreateRevenue)
	api.GET("/purchases", s.ListPurchases)
	api.POST("/purchases", s.CreatePurchase)
}
