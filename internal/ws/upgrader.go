package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Статус сессии не содержит секретов, origin не проверяем
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
