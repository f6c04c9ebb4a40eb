//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/oficina-erp/payroll-engine/internal/domain/user"
	"github.com/oficina-erp/payroll-engine/internal/pkg/jwt"
)

const binary = "bin/payroll-api"

// Dbup runs dbmate to apply db migrations
func Dbup() error {
	if err := requireDbmate(); err != nil {
		return err
	}
	fmt.Println(">> dbmate up")
	return sh.Run("dbmate", "up")
}

// Dbdown rolls back the latest migration.
func Dbdown() error {
	if err := requireDbmate(); err != nil {
		return err
	}
	fmt.Println(">> dbmate rollback")
	return sh.Run("dbmate", "rollback")
}

func requireDbmate() error {
	if _, err := exec.LookPath("dbmate"); err != nil {
		fmt.Println(">> dbmate not found; install with:")
		fmt.Println("   go install github.com/amacneil/dbmate/v2@latest")
		return err
	}
	return nil
}

// Build tidies deps, then compiles to ./bin/payroll-api.
func Build() error {
	mg.Deps(Tidy)
	fmt.Println(">> Building server binary...")
	return sh.Run("go", "build", "-o", binary, "./cmd/api")
}

// Run builds then executes the binary.
func Run() error {
	mg.Deps(Build)
	fmt.Println(">> Starting server...")
	return sh.RunV("./" + binary)
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test runs all unit tests. Repository tests run only when TEST_DATABASE_URL is set.
func Test() error {
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "./...")
}

// Integration migrates the test database and runs the repository tests against it.
func Integration() error {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		return fmt.Errorf("TEST_DATABASE_URL is required")
	}
	if err := requireDbmate(); err != nil {
		return err
	}
	fmt.Println(">> dbmate up (test database)")
	if err := sh.RunWith(map[string]string{"DATABASE_URL": url}, "dbmate", "--no-dump-schema", "up"); err != nil {
		return err
	}
	fmt.Println(">> Running repository tests...")
	return sh.RunV("go", "test", "-count=1", "./internal/repository/...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Token prints a development access token. COMPANY_ID is required; ROLE
// defaults to manager and USER_ID to "dev".
func Token() error {
	secret := os.Getenv("JWT_SECRET_KEY")
	companyID := os.Getenv("COMPANY_ID")
	if secret == "" || companyID == "" {
		return fmt.Errorf("JWT_SECRET_KEY and COMPANY_ID are required")
	}

	role := user.Role(envOr("ROLE", string(user.RoleManager)))
	if !role.IsValid() {
		return fmt.Errorf("invalid ROLE %q", role)
	}

	service := jwt.NewJWTService(secret, envOr("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	token, exp, err := service.GenerateAccessToken(envOr("USER_ID", "dev"), companyID, role)
	if err != nil {
		return err
	}
	fmt.Println(token)
	slog.Info("token generated", "role", role, "expires_at", exp)
	return nil
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println(">> Cleaning...")
	return os.RemoveAll("bin")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
