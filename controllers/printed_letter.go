package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/services"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
	"github.com/gin-gonic/gin"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type PrintedLetterController struct {
	Printer *services.PrintService
}

func NewPrintedLetterController(printer *services.PrintService) *PrintedLetterController {
	return &PrintedLetterController{Printer: printer}
}

// Print renders the signed letter, archives a copy, and streams the
// resulting .docx to the caller.
func (ctl *PrintedLetterController) Print(c *gin.Context) {
	requestID, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	printed, content, err := ctl.Printer.Print(currentActor(c), requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, printed.FileName))
	c.Data(http.StatusOK, docxContentType, content)
}

// Preview streams a PDF rendering of the letter for on-screen review
// before signing.
func (ctl *PrintedLetterController) Preview(c *gin.Context) {
	requestID, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	content, err := ctl.Printer.Preview(requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="preview.pdf"`)
	c.Data(http.StatusOK, "application/pdf", content)
}

// Download streams a previously printed letter by its stored file name.
func (ctl *PrintedLetterController) Download(c *gin.Context) {
	fileName := c.Param("fileName")

	printed, content, err := ctl.Printer.Download(fileName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, printed.FileName))
	c.Data(http.StatusOK, docxContentType, content)
}

// ListByResident returns the printed letters belonging to one resident.
func (ctl *PrintedLetterController) ListByResident(c *gin.Context) {
	residentID, err := strconv.ParseUint(c.Param("residentId"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid id parameter"))
		return
	}

	printed, err := ctl.Printer.ListByResident(uint(residentID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, printed)
}
