package main

import "collabBoard/cmd/app"

// @title                       collabBoard realtime service
// @version                     1.0
// @description                 Whiteboard rooms over websocket plus the canvas object REST API.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	app.GetApp().LetsGo()
}
