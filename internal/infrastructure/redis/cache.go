package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pralka431/magazynek/internal/application/ledger"
	"github.com/pralka431/magazynek/internal/domain/entity"
	"github.com/pralka431/magazynek/pkg/logger"
)

const (
	productsKey        = "view:products"
	movementsKeyPrefix = "view:movements:"
)

var _ ledger.ViewCache = (*ViewCache)(nil)

// ViewCache cachea las vistas de listado (stock e historial) en Redis con TTL
// corto. Cualquier error de Redis se loguea en warn y se trata como miss: el
// servicio sigue funcionando contra la BD.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New construye el cache. Si addr es vacío devuelve un cache nulo: todo miss,
// escrituras e invalidaciones no hacen nada.
func New(addr string, ttl time.Duration, log *logger.Logger) ledger.ViewCache {
	if addr == "" {
		return noop{}
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &ViewCache{client: client, ttl: ttl, log: log}
}

// GetProducts devuelve la vista de stock cacheada, o miss.
func (c *ViewCache) GetProducts(ctx context.Context) ([]*entity.ProductView, bool) {
	var list []*entity.ProductView
	if !c.get(ctx, productsKey, &list) {
		return nil, false
	}
	return list, true
}

// SetProducts cachea la vista de stock con el TTL configurado.
func (c *ViewCache) SetProducts(ctx context.Context, list []*entity.ProductView) {
	c.set(ctx, productsKey, list)
}

// GetMovements devuelve el historial cacheado para ese limit, o miss.
func (c *ViewCache) GetMovements(ctx context.Context, limit int) ([]*entity.MovementView, bool) {
	var list []*entity.MovementView
	if !c.get(ctx, movementsKey(limit), &list) {
		return nil, false
	}
	return list, true
}

// SetMovements cachea el historial para ese limit.
func (c *ViewCache) SetMovements(ctx context.Context, limit int, list []*entity.MovementView) {
	c.set(ctx, movementsKey(limit), list)
}

// Invalidate borra todas las vistas cacheadas. Se llama tras cada escritura
// exitosa de cualquier tipo; no hay invalidación parcial.
func (c *ViewCache) Invalidate(ctx context.Context) {
	keys := []string{productsKey}
	iter := c.client.Scan(ctx, 0, movementsKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn().Err(err).Msg("redis scan falló")
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Msg("redis del falló")
	}
}

func movementsKey(limit int) string {
	return fmt.Sprintf("%s%d", movementsKeyPrefix, limit)
}

func (c *ViewCache) get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("redis get falló")
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache corrupto, descartado")
		if err := c.client.Del(ctx, key).Err(); err != nil {
			c.log.Warn().Err(err).Msg("redis del falló")
		}
		return false
	}
	return true
}

func (c *ViewCache) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("serializar vista para cache falló")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("redis set falló")
	}
}

// noop implementa ViewCache sin Redis configurado.
type noop struct{}

func (noop) GetProducts(context.Context) ([]*entity.ProductView, bool)        { return nil, false }
func (noop) SetProducts(context.Context, []*entity.ProductView)               {}
func (noop) GetMovements(context.Context, int) ([]*entity.MovementView, bool) { return nil, false }
func (noop) SetMovements(context.Context, int, []*entity.MovementView)        {}
func (noop) Invalidate(context.Context)                                      {}
