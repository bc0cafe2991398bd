package security

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/pickt972/stock-wise-fleet-sub000/internal/repository"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if err := godotenv.Load(); err == nil {
			secret = os.Getenv("JWT_SECRET")
		}
	}
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtSecret = []byte(secret)
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.Select("id", "username", "password_hash", "role").From("users").Where(goqu.Ex{"username": username})

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID string, role string, username string) (string, error) {
	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 120).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// UserID extracts the authenticated actor id from the request context.
// Returns nil when the request carries no usable identity.
func UserID(c *gin.Context) *int {
	raw, exists := c.Get("userID")
	if !exists {
		return nil
	}

	str, ok := raw.(string)
	if !ok {
		return nil
	}

	id, err := strconv.Atoi(str)
	if err != nil {
		return nil
	}

	return &id
}

// HasRole reports whether the authenticated user holds at least the
// given role in the hierarchy.
func HasRole(c *gin.Context, requiredRole string) bool {
	raw, exists := c.Get("role")
	if !exists {
		return false
	}

	userRole, ok := raw.(string)
	if !ok {
		return false
	}

	requiredLevel, requiredExists := roleHierarchy[requiredRole]
	userLevel, userExists := roleHierarchy[userRole]

	return requiredExists && userExists && userLevel >= requiredLevel
}
