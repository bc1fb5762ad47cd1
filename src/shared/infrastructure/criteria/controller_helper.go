package criteria

import (
	domainCriteria "pos/src/shared/domain/criteria"

	"github.com/gin-gonic/gin"
)

// ControllerHelper proporciona funciones base para trabajar con criterios en controllers
type ControllerHelper struct{}

// NewControllerHelper crea una nueva instancia del helper
func NewControllerHelper() *ControllerHelper {
	return &ControllerHelper{}
}

// BuildCriteriaFromQuery construye criterios base desde query parameters de Gin
func (h *ControllerHelper) BuildCriteriaFromQuery(c *gin.Context) *domainCriteria.CriteriaBuilder {
	return domainCriteria.NewCriteriaBuilder().FromURLValues(c.Request.URL.Query())
}

// ValidateAndSanitizeCriteria descarta filtros y ordenamientos sobre campos no permitidos.
// Los nombres de campo se interpolan en el SQL, por eso la lista blanca es obligatoria.
func (h *ControllerHelper) ValidateAndSanitizeCriteria(criteria domainCriteria.Criteria, allowedFields []string, defaultOrder domainCriteria.Order) domainCriteria.Criteria {
	allowedMap := make(map[string]bool, len(allowedFields))
	for _, field := range allowedFields {
		allowedMap[field] = true
	}

	// Filtrar solo campos permitidos
	validFilters := domainCriteria.NewFilters()
	for _, filter := range criteria.Filters.Items {
		if allowedMap[filter.Field] {
			validFilters.Add(filter)
		}
	}

	// Validar campo de ordenamiento
	validOrder := criteria.Order
	if validOrder.IsEmpty() || !allowedMap[validOrder.Field] {
		validOrder = defaultOrder
	}

	return domainCriteria.NewCriteria(validFilters, validOrder, criteria.Limit, criteria.Offset)
}
