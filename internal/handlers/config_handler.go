package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/KundeServices/booking-gateway/internal/config"
	"github.com/KundeServices/booking-gateway/internal/httperr"
	"github.com/KundeServices/booking-gateway/internal/httpresp"
)

// ConfigHandler expõe o registro estático (marcas, serviços, funcionários)
// para a camada de apresentação.
type ConfigHandler struct {
	settings *config.Settings
}

func NewConfigHandler(settings *config.Settings) *ConfigHandler {
	return &ConfigHandler{settings: settings}
}

type brandSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

func (h *ConfigHandler) ListBrands(c *gin.Context) {
	out := make([]brandSummary, 0, len(h.settings.Brands))
	for _, b := range h.settings.Brands {
		out = append(out, brandSummary{ID: b.ID, Name: b.Name, Domain: b.Domain})
	}
	httpresp.List(c, out)
}

func (h *ConfigHandler) ListServices(c *gin.Context) {
	brand, err := h.settings.Brand(c.Param("brand"))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.List(c, brand.Services)
}

type employeeSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *ConfigHandler) ListEmployees(c *gin.Context) {
	brandID := c.Param("brand")
	if _, err := h.settings.Brand(brandID); err != nil {
		httperr.WriteError(c, err)
		return
	}

	employees := h.settings.EmployeesForBrand(brandID)
	out := make([]employeeSummary, 0, len(employees))
	for _, e := range employees {
		out = append(out, employeeSummary{ID: e.ID, Name: e.Name})
	}
	httpresp.List(c, out)
}
