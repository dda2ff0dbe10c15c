package config

type RoutesConfig interface {
	GetAdminPrefix() string
	GetAdminLoginPath() string
	GetAdminHomePath() string
	GetSiteRootPath() string
}

type Routes struct{}

var _ RoutesConfig = Routes{}

func (Routes) GetAdminPrefix() string {
	return "/admin"
}

func (Routes) GetAdminLoginPath() string {
	return "/admin/login"
}

func (Routes) GetAdminHomePath() string {
	return "/admin"
}

func (Routes) GetSiteRootPath() string {
	return "/"
}
