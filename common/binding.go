package common

import (
	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// BindingPathID parses the :id path parameter.
func BindingPathID(c *gin.Context) (types.ID, error) {
	return types.ParseID(c.Param("id"))
}
