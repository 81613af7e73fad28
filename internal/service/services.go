package service

import (
	"github.com/deppfellow/shipping/internal/lib/discovery"
	"github.com/deppfellow/shipping/internal/repository"
	"github.com/deppfellow/shipping/internal/server"
)

type Services struct {
	Packages *PackageService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var opts []discovery.Option
	if s.Redis != nil {
		opts = append(opts, discovery.WithCache(s.Redis))
	}
	apps := discovery.NewClient(s.Config.Discovery, s.Logger, opts...)

	return &Services{
		Packages: NewPackageService(s.DB.Sessions, repos.Packages, apps, s.Logger),
	}, nil
}
