package router

import (
	"net/http"

	"github.com/senyabanana/procurement-service/internal/handlers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitRoutes(rfpHandler *handlers.RFPHandler, vendorHandler *handlers.VendorHandler, proposalHandler *handlers.ProposalHandler, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", handlers.PingHandler)
	mux.HandleFunc("GET /api/health", handlers.PingHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/rfps/from-text", rfpHandler.CreateRFPFromText)
	mux.HandleFunc("GET /api/rfps", rfpHandler.ListRFPs)
	mux.HandleFunc("GET /api/rfps/{id}", rfpHandler.GetRFP)
	mux.HandleFunc("PUT /api/rfps/{id}", rfpHandler.EditRFP)
	mux.HandleFunc("DELETE /api/rfps/{id}", rfpHandler.DeleteRFP)
	mux.HandleFunc("POST /api/rfps/{id}/send", rfpHandler.SendRFP)
	mux.HandleFunc("GET /api/rfps/{rfpId}/proposals", proposalHandler.ListProposalsByRFP)

	mux.HandleFunc("POST /api/vendors", vendorHandler.CreateVendor)
	mux.HandleFunc("GET /api/vendors", vendorHandler.ListVendors)
	mux.HandleFunc("GET /api/vendors/{id}", vendorHandler.GetVendor)
	mux.HandleFunc("PUT /api/vendors/{id}", vendorHandler.UpdateVendor)
	mux.HandleFunc("DELETE /api/vendors/{id}", vendorHandler.DeleteVendor)

	mux.HandleFunc("GET /api/proposals/rfp/{rfpId}", proposalHandler.ListProposalsByRFP)
	mux.HandleFunc("GET /api/proposals/{id}", proposalHandler.GetProposal)
	mux.HandleFunc("POST /api/proposals/compare", proposalHandler.CompareProposals)
	mux.HandleFunc("POST /api/proposals/{id}/preview-email", proposalHandler.PreviewStatusEmail)
	mux.HandleFunc("PUT /api/proposals/{id}/status", proposalHandler.UpdateProposalStatus)

	return mux
}
