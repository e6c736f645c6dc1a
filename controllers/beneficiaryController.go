package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricile448/amcb-sub000/models"
	"github.com/pricile448/amcb-sub000/services"
)

type BeneficiaryController struct {
	BeneficiaryService services.BeneficiaryService
}

func BeneficiaryConstructor(beneficiaryService services.BeneficiaryService) BeneficiaryController {
	return BeneficiaryController{BeneficiaryService: beneficiaryService}
}

type BeneficiaryBody struct {
	Name     string `json:"name" validate:"required"`
	IBAN     string `json:"iban" validate:"required"`
	BIC      string `json:"bic"`
	Nickname string `json:"nickname"`
}

func (bc *BeneficiaryController) List(c *gin.Context) {
	beneficiaries, err := bc.BeneficiaryService.List(c.Request.Context(), c.Param("userId"))
	if err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"beneficiaries": beneficiaries})
}

func (bc *BeneficiaryController) Create(c *gin.Context) {
	var body BeneficiaryBody
	if err := c.BindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := Validate.Struct(body); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}

	beneficiary := models.Beneficiary{
		ID:       uuid.NewString(),
		Name:     body.Name,
		IBAN:     body.IBAN,
		BIC:      body.BIC,
		Nickname: body.Nickname,
	}
	if err := bc.BeneficiaryService.Add(c.Request.Context(), c.Param("userId"), &beneficiary); err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"beneficiary": beneficiary})
}

func (bc *BeneficiaryController) Delete(c *gin.Context) {
	err := bc.BeneficiaryService.Delete(c.Request.Context(), c.Param("userId"), c.Param("id"))
	if err != nil {
		failFrom(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (bc *BeneficiaryController) BeneficiaryRoutes(rg *gin.RouterGroup) {
	rg.GET("/beneficiaries/:userId", bc.List)
	rg.POST("/beneficiaries/:userId", bc.Create)
	rg.DELETE("/beneficiaries/:userId/:id", bc.Delete)
}
