package service

import (
	"context"

	"sales-management/store"
)

// --- cities ---

func (s *Service) ListCities(ctx context.Context) ([]CityDTO, error) {
	rows, err := s.store.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CityDTO, 0, len(rows))
	for _, c := range rows {
		out = append(out, toCityDTO(c))
	}
	return out, nil
}

func (s *Service) GetCity(ctx context.Context, id int64) (CityDTO, error) {
	c, err := s.store.GetCity(ctx, id)
	if err != nil {
		return CityDTO{}, err
	}
	return toCityDTO(c), nil
}

func (s *Service) CreateCity(ctx context.Context, req CityRequest) (int64, error) {
	if err := s.checkName("name", req.Name); err != nil {
		return 0, err
	}
	return s.store.CreateCity(ctx, req.Name)
}

func (s *Service) UpdateCity(ctx context.Context, id int64, req CityPatchRequest) (CityDTO, error) {
	if req.Name != nil {
		if err := s.checkName("name", *req.Name); err != nil {
			return CityDTO{}, err
		}
	}
	c, err := s.store.UpdateCity(ctx, id, req.Name)
	if err != nil {
		return CityDTO{}, err
	}
	return toCityDTO(c), nil
}

// DeleteCity also removes the city's stores and their sales.
func (s *Service) DeleteCity(ctx context.Context, id int64) (CityDTO, error) {
	c, err := s.store.DeleteCity(ctx, id)
	if err != nil {
		return CityDTO{}, err
	}
	return toCityDTO(c), nil
}

// --- stores ---

func (s *Service) ListStores(ctx context.Context) ([]StoreDTO, error) {
	rows, err := s.store.ListStores(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StoreDTO, 0, len(rows))
	for _, st := range rows {
		out = append(out, toStoreDTO(st))
	}
	return out, nil
}

func (s *Service) GetStore(ctx context.Context, id int64) (StoreDTO, error) {
	st, err := s.store.GetStore(ctx, id)
	if err != nil {
		return StoreDTO{}, err
	}
	return toStoreDTO(st), nil
}

func (s *Service) CreateStore(ctx context.Context, req StoreRequest) (int64, error) {
	if err := s.checkName("name", req.Name); err != nil {
		return 0, err
	}
	if err := s.validate(req); err != nil {
		return 0, err
	}
	return s.store.CreateStore(ctx, req.Name, req.CityID)
}

func (s *Service) UpdateStore(ctx context.Context, id int64, req StorePatchRequest) (StoreDTO, error) {
	if req.Name != nil {
		if err := s.checkName("name", *req.Name); err != nil {
			return StoreDTO{}, err
		}
	}
	if err := s.validate(req); err != nil {
		return StoreDTO{}, err
	}
	st, err := s.store.UpdateStore(ctx, id, store.StorePatch{Name: req.Name, CityID: req.CityID})
	if err != nil {
		return StoreDTO{}, err
	}
	return toStoreDTO(st), nil
}

func (s *Service) DeleteStore(ctx context.Context, id int64) (StoreDTO, error) {
	st, err := s.store.DeleteStore(ctx, id)
	if err != nil {
		return StoreDTO{}, err
	}
	return toStoreDTO(st), nil
}

// --- products ---

func (s *Service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, toProductDTO(p))
	}
	return out, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (ProductDTO, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	return toProductDTO(p), nil
}

func (s *Service) CreateProduct(ctx context.Context, req ProductRequest) (int64, error) {
	if err := s.checkName("name", req.Name); err != nil {
		return 0, err
	}
	if err := checkPrice(req.Price); err != nil {
		return 0, err
	}
	return s.store.CreateProduct(ctx, req.Name, req.Price)
}

// UpdateProduct changes the catalog only. Line items already written keep
// the price they were created with.
func (s *Service) UpdateProduct(ctx context.Context, id int64, req ProductPatchRequest) (ProductDTO, error) {
	if req.Name != nil {
		if err := s.checkName("name", *req.Name); err != nil {
			return ProductDTO{}, err
		}
	}
	if req.Price != nil {
		if err := checkPrice(*req.Price); err != nil {
			return ProductDTO{}, err
		}
	}
	p, err := s.store.UpdateProduct(ctx, id, store.ProductPatch{Name: req.Name, Price: req.Price})
	if err != nil {
		return ProductDTO{}, err
	}
	return toProductDTO(p), nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) (ProductDTO, error) {
	p, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	return toProductDTO(p), nil
}
