package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
)

// RegisterCustomValidators wires the enum validators used by the binding
// tags above into gin's validator engine. Call once at startup.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("salestatus", validSaleStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("saleorigin", validSaleOrigin); err != nil {
		return err
	}
	return v.RegisterValidation("itemkind", validItemKind)
}

func validSaleStatus(fl validator.FieldLevel) bool {
	switch domain.SaleStatus(fl.Field().String()) {
	case domain.SaleCompleted, domain.SaleOnLoan:
		return true
	}
	return false
}

func validSaleOrigin(fl validator.FieldLevel) bool {
	switch domain.SaleOrigin(fl.Field().String()) {
	case domain.OriginMobilePOS, domain.OriginManualWeb:
		return true
	}
	return false
}

func validItemKind(fl validator.FieldLevel) bool {
	switch domain.ItemKind(fl.Field().String()) {
	case domain.ItemKindProduct, domain.ItemKindRawMaterial:
		return true
	}
	return false
}
