package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler             *AuthHandler
	UserHandler             *UserHandler
	VendorHandler           *VendorHandler
	CategoryHandler         *CategoryHandler
	ContactHandler          *ContactHandler
	TagHandler              *TagHandler
	BannerHandler           *BannerHandler
	NotificationHandler     *NotificationHandler
	EmergencyContactHandler *EmergencyContactHandler
	SettingHandler          *SettingHandler
	FileHandler             *FileHandler
}

// RegisterRoutes раздает группы маршрутов всем хэндлерам
func (a *AppHandlers) RegisterRoutes(g RouteGroups) {
	a.AuthHandler.RegisterRoutes(g)
	a.UserHandler.RegisterRoutes(g)
	a.VendorHandler.RegisterRoutes(g)
	a.CategoryHandler.RegisterRoutes(g)
	a.ContactHandler.RegisterRoutes(g)
	a.TagHandler.RegisterRoutes(g)
	a.BannerHandler.RegisterRoutes(g)
	a.NotificationHandler.RegisterRoutes(g)
	a.EmergencyContactHandler.RegisterRoutes(g)
	a.SettingHandler.RegisterRoutes(g)
	a.FileHandler.RegisterRoutes(g)
}
