// @title           Project Estimator API
// @version         1.0
// @description     Project cost calculator: step filtering, pricing, quote submissions and the admin pricing editor.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import "estimator-backend/cmd"

func main() {
	cmd.Execute()
}
