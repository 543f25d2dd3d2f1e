// Package tool provides the registry the agent uses to resolve and execute
// function calls.
//
// Define tool arguments as a struct with json and desc tags, then register
// a typed handler; the parameter schema is generated by reflection:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" desc:"City name" required:"true"`
//	}
//
//	registry := tool.NewRegistry()
//	tool.MustRegisterFunc(registry, "get_weather", "Get current weather",
//	    func(ctx context.Context, args WeatherArgs) (string, error) {
//	        return getWeather(args.Location)
//	    })
//
// Tools with pre-built schemas register directly:
//
//	registry.MustRegister(volley.Tool{
//	    Name:        "lookup",
//	    Description: "Look up a record",
//	    Parameters:  schema,
//	}, lookupHandler)
package tool
