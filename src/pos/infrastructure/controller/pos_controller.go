package controller

import (
	"log"
	"net/http"

	"pos/src/pos/application/request"
	"pos/src/pos/application/usecase"
	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/session"
	"pos/src/shared/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// PosController maneja las peticiones HTTP de la terminal de punto de venta
type PosController struct {
	registry *usecase.TerminalRegistry
	verifier *session.Verifier
}

// NewPosController crea una nueva instancia del controlador
func NewPosController(registry *usecase.TerminalRegistry, verifier *session.Verifier) *PosController {
	return &PosController{registry: registry, verifier: verifier}
}

// RegisterRoutes registra las rutas del controlador
func (c *PosController) RegisterRoutes(router *gin.RouterGroup) {
	pos := router.Group("/pos", middleware.RequireSession(c.verifier))
	{
		pos.GET("/cart", c.GetCart)
		pos.POST("/cart/items", c.AddCartItem)
		pos.PUT("/cart/items/:item_id", c.UpdateCartItem)
		pos.DELETE("/cart/items/:item_id", c.RemoveCartItem)
		pos.DELETE("/cart", c.ClearCart)

		pos.GET("/catalog/search", c.SearchCatalog)
		pos.POST("/catalog/query", c.SubmitCatalogQuery)
		pos.GET("/catalog/results", c.CatalogResults)

		pos.GET("/customers/search", c.SearchCustomers)
		pos.POST("/customers/query", c.SubmitCustomerQuery)
		pos.GET("/customers/results", c.CustomerResults)
		pos.PUT("/customers/selected", c.SelectCustomer)
		pos.DELETE("/customers/selected", c.DeselectCustomer)

		pos.GET("/loyalty", c.GetLoyalty)
		pos.POST("/loyalty/rewards/:reward_id/redeem", c.RedeemReward)

		pos.POST("/coupon", c.ApplyCoupon)
		pos.DELETE("/coupon", c.RemoveCoupon)
		pos.GET("/discount", c.GetDiscount)

		pos.GET("/register", c.GetRegister)
		pos.POST("/register/open", c.OpenRegister)
		pos.POST("/register/close", c.CloseRegister)

		pos.GET("/checkout", c.GetCheckoutState)
		pos.POST("/checkout/finalize", c.Finalize)

		pos.GET("/session", c.GetSession)
		pos.DELETE("/terminal", c.ReleaseTerminal)
	}

	log.Println("Rutas POS disponibles:")
	log.Println("  GET    /api/v1/pos/cart")
	log.Println("  POST   /api/v1/pos/cart/items")
	log.Println("  PUT    /api/v1/pos/cart/items/:item_id")
	log.Println("  DELETE /api/v1/pos/cart/items/:item_id")
	log.Println("  DELETE /api/v1/pos/cart")
	log.Println("  GET    /api/v1/pos/catalog/search?q=")
	log.Println("  POST   /api/v1/pos/catalog/query")
	log.Println("  GET    /api/v1/pos/catalog/results")
	log.Println("  GET    /api/v1/pos/customers/search?q=")
	log.Println("  POST   /api/v1/pos/customers/query")
	log.Println("  GET    /api/v1/pos/customers/results")
	log.Println("  PUT    /api/v1/pos/customers/selected")
	log.Println("  DELETE /api/v1/pos/customers/selected")
	log.Println("  GET    /api/v1/pos/loyalty")
	log.Println("  POST   /api/v1/pos/loyalty/rewards/:reward_id/redeem")
	log.Println("  POST   /api/v1/pos/coupon")
	log.Println("  DELETE /api/v1/pos/coupon")
	log.Println("  GET    /api/v1/pos/discount")
	log.Println("  GET    /api/v1/pos/register")
	log.Println("  POST   /api/v1/pos/register/open")
	log.Println("  POST   /api/v1/pos/register/close")
	log.Println("  GET    /api/v1/pos/checkout")
	log.Println("  POST   /api/v1/pos/checkout/finalize  ⭐ (Finalize Sale)")
	log.Println("  GET    /api/v1/pos/session")
	log.Println("  DELETE /api/v1/pos/terminal")
}

// terminal obtiene (o crea) la terminal del operador autenticado
func (c *PosController) terminal(ctx *gin.Context) (*usecase.Terminal, bool) {
	sess, ok := middleware.SessionFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "session is required"})
		return nil, false
	}

	terminal, err := c.registry.Acquire(ctx.Request.Context(), sess)
	if err != nil {
		fail(ctx, err)
		return nil, false
	}
	return terminal, true
}

// fail traduce el error a HTTP: validación → 422, backend → su 4xx o 502
func fail(ctx *gin.Context, err error) {
	notice := entity.NoticeFromError(err)

	status := http.StatusInternalServerError
	if entity.IsValidation(err) {
		status = http.StatusUnprocessableEntity
	} else if remote, ok := entity.AsRemote(err); ok {
		status = http.StatusBadGateway
		if remote.Status >= 400 && remote.Status < 500 {
			status = remote.Status
		}
	} else {
		log.Printf("❌ Unexpected error: %v", err)
	}

	ctx.JSON(status, gin.H{
		"error":  notice.Message,
		"notice": notice,
	})
}

// bindFail respuesta para un body inválido
func bindFail(ctx *gin.Context, err error) {
	fail(ctx, entity.NewValidationError(err))
}

// GetCart trae el carrito del servidor y reemplaza la copia local
func (c *PosController) GetCart(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	cart, err := terminal.Cart.Load(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart, "notice": entity.StockWarning(cart)})
}

// AddCartItem agrega un producto al carrito
func (c *PosController) AddCartItem(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	var req request.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindFail(ctx, err)
		return
	}

	cart, notice, err := terminal.Cart.AddItem(ctx.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart, "notice": notice})
}

// UpdateCartItem cambia la cantidad de una línea
func (c *PosController) UpdateCartItem(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	var req request.UpdateCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindFail(ctx, err)
		return
	}

	cart, notice, err := terminal.Cart.UpdateQuantity(ctx.Request.Context(), ctx.Param("item_id"), string(req.Quantity))
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart, "notice": notice})
}

// RemoveCartItem elimina una línea
func (c *PosController) RemoveCartItem(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	cart, notice, err := terminal.Cart.RemoveItem(ctx.Request.Context(), ctx.Param("item_id"))
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart, "notice": notice})
}

// ClearCart vacía el carrito
func (c *PosController) ClearCart(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	cart, _, err := terminal.Cart.Clear(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// SearchCatalog búsqueda inmediata de productos
func (c *PosController) SearchCatalog(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, terminal.Catalog.Search(ctx.Request.Context(), ctx.Query("q")))
}

// SubmitCatalogQuery alimenta el stream con debounce
func (c *PosController) SubmitCatalogQuery(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	var req request.SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindFail(ctx, err)
		return
	}

	terminal.Catalog.Submit(req.Query)
	ctx.JSON(http.StatusAccepted, gin.H{"query": req.Query})
}

// CatalogResults último resultado del stream
func (c *PosController) CatalogResults(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	result, ready := terminal.Catalog.Latest()
	ctx.JSON(http.StatusOK, gin.H{"ready": ready, "result": result})
}

// SearchCustomers búsqueda inmediata de clientes
func (c *PosController) SearchCustomers(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, terminal.Customers.Search(ctx.Request.Context(), ctx.Query("q")))
}

// SubmitCustomerQuery alimenta el stream de clientes
func (c *PosController) SubmitCustomerQuery(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	var req request.SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindFail(ctx, err)
		return
	}

	terminal.Customers.Submit(req.Query)
	ctx.JSON(http.StatusAccepted, gin.H{"query": req.Query})
}

// CustomerResults último resultado del stream de clientes
func (c *PosController) CustomerResults(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	result, ready := terminal.Customers.Latest()
	ctx.JSON(http.StatusOK, gin.H{"ready": ready, "result": result})
}

// GetSession identidad del operador autenticado
func (c *PosController) GetSession(ctx *gin.Context) {
	sess, ok := middleware.SessionFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "session is required"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"operator_id": sess.OperatorID(),
		"name":        sess.Name(),
		"roles":       sess.Roles(),
	})
}

// ReleaseTerminal descarta la terminal del operador (logout)
func (c *PosController) ReleaseTerminal(ctx *gin.Context) {
	sess, ok := middleware.SessionFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "session is required"})
		return
	}

	released := c.registry.Release(sess.OperatorID())
	ctx.JSON(http.StatusOK, gin.H{"released": released})
}
