package api

import (
	"github.com/platefulapp/plateful-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth       *service.AuthService
	User       *service.UserService
	Social     *service.SocialService
	Tag        *service.TagService
	Ingredient *service.IngredientService
	Recipe     *service.RecipeService
	Cart       *service.CartService
}
