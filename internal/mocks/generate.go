// Package mocks contiene los mocks gomock de los puertos de la aplicación.
//
// Para regenerarlos después de cambiar una interfaz:
//
//	go generate ./internal/mocks
//
// Uso en tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockAuthAPI(ctrl)
//	api.EXPECT().Me(gomock.Any()).Return(map[string]any{"nombre": "Ana"}, nil)
package mocks

// MockAuthAPI: Login, Logout, Me
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/jhoicas/gestion-horarios/internal/application/ports AuthAPI

// MockCatalogRepository: List, GetByID, Create, Update, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=catalog_repository_mock.go github.com/jhoicas/gestion-horarios/internal/domain/repository CatalogRepository
