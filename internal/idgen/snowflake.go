package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

// Snowflake выдаёт 64-битные идентификаторы по схеме snowflake:
// метка времени, номер узла, счётчик внутри миллисекунды. Идентификаторы
// монотонно растут, поэтому сортировка по id совпадает с порядком создания.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake создаёт генератор для узла с заданным номером.
// Номер узла обязан быть уникальным среди работающих экземпляров сервиса.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node %d: %w", nodeID, err)
	}
	return &Snowflake{node: node}, nil
}

// NextID возвращает следующий идентификатор. Безопасен для конкурентного
// использования.
func (g *Snowflake) NextID() uint64 {
	return uint64(g.node.Generate().Int64())
}

var _ domain.IDAllocator = (*Snowflake)(nil)
