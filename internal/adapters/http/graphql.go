package http

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/heritagepass/internal/core/domain"
)

func pointMap(p domain.GeoPoint) map[string]any {
	return map[string]any{"lat": p.Lat, "lng": p.Lng}
}

func landmarkMap(l domain.Landmark, distanceKm *float64) map[string]any {
	m := map[string]any{
		"id":          l.ID,
		"name":        l.Name,
		"coordinates": pointMap(l.Location),
	}
	if distanceKm != nil {
		m["distance_km"] = *distanceKm
	}
	return m
}

func argPoint(p graphql.ResolveParams) domain.GeoPoint {
	lat, _ := p.Args["lat"].(float64)
	lng, _ := p.Args["lng"].(float64)
	return domain.GeoPoint{Lat: lat, Lng: lng}
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	landmarkType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Landmark",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{Type: geoPointType},
			"distance_km": &graphql.Field{Type: graphql.Float},
		},
	})

	meetingPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MeetingPoint",
		Fields: graphql.Fields{
			"id":                   &graphql.Field{Type: graphql.String},
			"name":                 &graphql.Field{Type: graphql.String},
			"coordinates":          &graphql.Field{Type: geoPointType},
			"address":              &graphql.Field{Type: graphql.String},
			"type":                 &graphql.Field{Type: graphql.String},
			"landmark":             &graphql.Field{Type: graphql.String},
			"distance_km":          &graphql.Field{Type: graphql.Float},
			"walking_time_minutes": &graphql.Field{Type: graphql.Int},
		},
	})

	serviceAreaType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ServiceAreaCheck",
		Fields: graphql.Fields{
			"within": &graphql.Field{Type: graphql.Boolean},
			"city":   &graphql.Field{Type: graphql.String},
			"state":  &graphql.Field{Type: graphql.String},
			"center": &graphql.Field{Type: geoPointType},
		},
	})

	safetyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SafetyReport",
		Fields: graphql.Fields{
			"safety_score":       &graphql.Field{Type: graphql.Int},
			"safety_level":       &graphql.Field{Type: graphql.String},
			"color":              &graphql.Field{Type: graphql.String},
			"recommendations":    &graphql.Field{Type: graphql.NewList(graphql.String)},
			"nearest_police":     &graphql.Field{Type: graphql.String},
			"police_distance_km": &graphql.Field{Type: graphql.Float},
		},
	})

	fieldErrorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FieldError",
		Fields: graphql.Fields{
			"field":   &graphql.Field{Type: graphql.String},
			"message": &graphql.Field{Type: graphql.String},
		},
	})

	validationResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ValidationResult",
		Fields: graphql.Fields{
			"is_valid": &graphql.Field{Type: graphql.Boolean},
			"errors":   &graphql.Field{Type: graphql.NewList(fieldErrorType)},
			"cleaned_data": &graphql.Field{
				Type:        graphql.String,
				Description: "Cleaned values as a JSON object",
			},
		},
	})

	pointArgs := graphql.FieldConfigArgument{
		"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"lng": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
	}
	withPoint := func(extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
		args := graphql.FieldConfigArgument{}
		for k, v := range pointArgs {
			args[k] = v
		}
		for k, v := range extra {
			args[k] = v
		}
		return args
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"landmarks": &graphql.Field{
				Type:        graphql.NewList(landmarkType),
				Description: "List reference landmarks",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultPageLimit},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					offset, _ := p.Args["offset"].(int)
					limit, _ := p.Args["limit"].(int)
					landmarks, _ := deps.Geo.Landmarks(offset, limit)
					out := make([]map[string]any, 0, len(landmarks))
					for _, l := range landmarks {
						out = append(out, landmarkMap(l, nil))
					}
					return out, nil
				},
			},
			"nearestLandmark": &graphql.Field{
				Type:        landmarkType,
				Description: "Landmark closest to a location",
				Args:        pointArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					match, err := deps.Geo.NearestLandmark(p.Context, argPoint(p))
					if err != nil {
						return nil, err
					}
					return landmarkMap(match.Landmark, &match.DistanceKm), nil
				},
			},
			"meetingPoints": &graphql.Field{
				Type:        graphql.NewList(meetingPointType),
				Description: "Safe meeting points near a location, closest first",
				Args: withPoint(graphql.FieldConfigArgument{
					"max_km": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 3.0},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					maxKm, _ := p.Args["max_km"].(float64)
					points, err := deps.Geo.MeetingPoints(p.Context, argPoint(p), maxKm)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, 0, len(points))
					for _, mp := range points {
						out = append(out, map[string]any{
							"id":                   mp.ID,
							"name":                 mp.Name,
							"coordinates":          pointMap(mp.Location),
							"address":              mp.Address,
							"type":                 mp.Type,
							"landmark":             mp.LandmarkID,
							"distance_km":          mp.DistanceKm,
							"walking_time_minutes": mp.WalkingTimeMinutes,
						})
					}
					return out, nil
				},
			},
			"serviceAreaCheck": &graphql.Field{
				Type:        serviceAreaType,
				Description: "Whether a location is inside the service area",
				Args: withPoint(graphql.FieldConfigArgument{
					"buffer_km": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: -1.0},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt := argPoint(p)
					if !pt.Valid() {
						return nil, fmt.Errorf("invalid coordinates")
					}
					buffer, _ := p.Args["buffer_km"].(float64)
					area := deps.Geo.Area()
					return map[string]any{
						"within": deps.Geo.ServiceAreaCheck(pt, buffer),
						"city":   area.City,
						"state":  area.State,
						"center": pointMap(area.Center),
					}, nil
				},
			},
			"safetyScore": &graphql.Field{
				Type:        safetyType,
				Description: "Safety rating of a location",
				Args: withPoint(graphql.FieldConfigArgument{
					"time_of_day": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "day"},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					tod, _ := p.Args["time_of_day"].(string)
					report, err := deps.Geo.Safety(p.Context, argPoint(p), tod)
					if err != nil {
						return nil, err
					}
					m := map[string]any{
						"safety_score":    report.Score,
						"safety_level":    report.Level,
						"color":           report.Color,
						"recommendations": report.Recommendations,
					}
					if report.NearestPolice != nil {
						m["nearest_police"] = report.NearestPolice.Name
					}
					if report.PoliceDistanceKm != nil {
						m["police_distance_km"] = *report.PoliceDistanceKm
					}
					return m, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"validate": &graphql.Field{
				Type:        validationResultType,
				Description: "Validate a JSON payload as the given entity",
				Args: graphql.FieldConfigArgument{
					"entity":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"payload": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					entity, _ := p.Args["entity"].(string)
					payload, _ := p.Args["payload"].(string)

					var raw map[string]any
					if err := json.Unmarshal([]byte(payload), &raw); err != nil || raw == nil {
						return nil, fmt.Errorf("payload must be a JSON object")
					}
					res, err := deps.Validation.Validate(p.Context, entity, raw)
					if err != nil {
						return nil, err
					}

					errs := make([]map[string]any, 0, len(res.Errors))
					for _, fe := range res.Errors {
						errs = append(errs, map[string]any{"field": fe.Field, "message": fe.Message})
					}
					cleaned, err := json.Marshal(res.CleanedData)
					if err != nil {
						return nil, err
					}
					return map[string]any{
						"is_valid":     res.IsValid,
						"errors":       errs,
						"cleaned_data": string(cleaned),
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string         `json:"query"`
		OperationName string         `json:"operationName"`
		Variables     map[string]any `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil || req.Query == "" {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
