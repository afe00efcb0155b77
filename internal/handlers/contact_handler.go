package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eventhub/internal/models"
	"eventhub/internal/services"
)

const maxImportSize = 5 << 20

type ContactHandler struct {
	service *services.ContactService
}

func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

type contactRequest struct {
	NameEn        string `json:"nameEn" binding:"required"`
	NameAr        string `json:"nameAr"`
	Title         string `json:"title"`
	TitleAr       string `json:"titleAr"`
	Organization  string `json:"organization"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PartnershipID *int64 `json:"partnershipId"`
	Notes         string `json:"notes"`
}

func (r contactRequest) apply(c *models.Contact) {
	c.NameEn = r.NameEn
	c.NameAr = r.NameAr
	c.Title = r.Title
	c.TitleAr = r.TitleAr
	c.Organization = r.Organization
	c.Email = r.Email
	c.Phone = r.Phone
	c.PartnershipID = r.PartnershipID
	c.Notes = r.Notes
}

// @Summary  Create contact
// @Tags     Contacts
// @Accept   json
// @Produce  json
// @Param    contact  body      contactRequest  true  "Contact"
// @Success  201      {object}  models.Contact
// @Failure  409      {object}  map[string]string
// @Router   /api/contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var ct models.Contact
	req.apply(&ct)
	if err := h.service.Create(c.Request.Context(), &ct); err != nil {
		respondError(c, "contact", "create", err)
		return
	}
	log.Printf("[contact][create][ok] rid=%s id=%d", requestID(c), ct.ID)
	c.JSON(http.StatusCreated, ct)
}

// @Summary  List contacts
// @Tags     Contacts
// @Produce  json
// @Param    q       query  string  false  "Search"
// @Param    limit   query  int     false  "Limit"
// @Param    offset  query  int     false  "Offset"
// @Success  200  {array}  models.Contact
// @Router   /api/contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.service.List(c.Request.Context(), c.Query("q"), limit, offset)
	if err != nil {
		respondError(c, "contact", "list", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary  Get contact
// @Tags     Contacts
// @Produce  json
// @Param    id   path      int  true  "Contact ID"
// @Success  200  {object}  models.Contact
// @Router   /api/contacts/{id} [get]
func (h *ContactHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ct, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "contact", "get", err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

// @Summary  Update contact
// @Tags     Contacts
// @Accept   json
// @Produce  json
// @Param    id       path      int             true  "Contact ID"
// @Param    contact  body      contactRequest  true  "Contact"
// @Success  200      {object}  models.Contact
// @Router   /api/contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ct, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "contact", "update", err)
		return
	}
	req.apply(ct)
	if err := h.service.Update(c.Request.Context(), ct); err != nil {
		respondError(c, "contact", "update", err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

// @Summary  Delete contact
// @Tags     Contacts
// @Param    id  path  int  true  "Contact ID"
// @Success  204
// @Router   /api/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "contact", "delete", err)
		return
	}
	log.Printf("[contact][delete][ok] rid=%s id=%d", requestID(c), id)
	c.Status(http.StatusNoContent)
}

// @Summary  Export contacts as CSV
// @Tags     Contacts
// @Produce  text/csv
// @Param    q  query  string  false  "Search"
// @Success  200
// @Router   /api/contacts/export [get]
func (h *ContactHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	n, err := h.service.ExportCSV(c.Request.Context(), &buf, c.Query("q"))
	if err != nil {
		respondError(c, "contact", "export", err)
		return
	}
	name := fmt.Sprintf("contacts-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	log.Printf("[contact][export][ok] rid=%s rows=%d", requestID(c), n)
}

// @Summary      Import contacts from CSV
// @Description  Upserts by email. Rows that fail are reported and skipped.
// @Tags         Contacts
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV file"
// @Success      200   {object}  models.ContactImportResult
// @Router       /api/contacts/import [post]
func (h *ContactHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, "contact", "import", err)
		return
	}
	defer f.Close()

	res, err := h.service.ImportCSV(c.Request.Context(), f)
	if err != nil {
		respondError(c, "contact", "import", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
