package shared

import (
	"encoding/json"
	"time"

	"github.com/go-spatial/geom"
)

// ValueNode is a node of an Earth Engine expression graph
type ValueNode struct {
	constant   interface{}
	invocation *Invocation
	array      []ValueNode
	isArray    bool
	dictionary map[string]ValueNode
}

// Invocation is the call of an Earth Engine algorithm
type Invocation struct {
	FunctionName string               `json:"functionName"`
	Arguments    map[string]ValueNode `json:"arguments,omitempty"`
}

// Expression is a serialized Earth Engine computation
type Expression struct {
	Result string               `json:"result"`
	Values map[string]ValueNode `json:"values"`
}

// NewExpression wraps the node into an expression
func NewExpression(n ValueNode) Expression {
	return Expression{Result: "0", Values: map[string]ValueNode{"0": n}}
}

// MarshalJSON implements json.Marshaler
func (n ValueNode) MarshalJSON() ([]byte, error) {
	switch {
	case n.invocation != nil:
		return json.Marshal(map[string]interface{}{"functionInvocationValue": n.invocation})
	case n.isArray:
		return json.Marshal(map[string]interface{}{"arrayValue": map[string]interface{}{"values": n.array}})
	case n.dictionary != nil:
		return json.Marshal(map[string]interface{}{"dictionaryValue": map[string]interface{}{"values": n.dictionary}})
	}
	return json.Marshal(map[string]interface{}{"constantValue": n.constant})
}

// Constant returns a node holding a json-serializable value (nil is allowed)
func Constant(v interface{}) ValueNode {
	return ValueNode{constant: v}
}

// Invoke returns a node calling the algorithm with the given arguments
func Invoke(function string, args map[string]ValueNode) ValueNode {
	return ValueNode{invocation: &Invocation{FunctionName: function, Arguments: args}}
}

// Array returns a node holding a list of nodes
func Array(values ...ValueNode) ValueNode {
	if values == nil {
		values = []ValueNode{}
	}
	return ValueNode{array: values, isArray: true}
}

// Dictionary returns a node holding a dictionary of nodes
func Dictionary(values map[string]ValueNode) ValueNode {
	if values == nil {
		values = map[string]ValueNode{}
	}
	return ValueNode{dictionary: values}
}

// Polygon returns a geometry node
func Polygon(p geom.Polygon) ValueNode {
	coords := make([][][2]float64, len(p))
	for i, ring := range p {
		coords[i] = ring
	}
	return Invoke("GeometryConstructors.Polygon", map[string]ValueNode{
		"coordinates": Constant(coords),
		"evenOdd":     Constant(true),
	})
}

// Date returns a date node
func Date(t time.Time) ValueNode {
	return Invoke("Date", map[string]ValueNode{"value": Constant(t.UnixMilli())})
}

// DateRange returns a node of the range [start, end)
func DateRange(start, end time.Time) ValueNode {
	return Invoke("DateRange", map[string]ValueNode{"start": Date(start), "end": Date(end)})
}

// ImageCollectionLoad returns a node loading a collection of the catalog
func ImageCollectionLoad(id string) ValueNode {
	return Invoke("ImageCollection.load", map[string]ValueNode{"id": Constant(id)})
}

// FilterBounds keeps the elements of the collection intersecting the geometry
func FilterBounds(collection, geometry ValueNode) ValueNode {
	return Invoke("Collection.filter", map[string]ValueNode{
		"collection": collection,
		"filter": Invoke("Filter.intersects", map[string]ValueNode{
			"leftField":  Constant(".all"),
			"rightValue": geometry,
		}),
	})
}

// FilterDate keeps the elements of the collection acquired in [start, end)
func FilterDate(collection ValueNode, start, end time.Time) ValueNode {
	return Invoke("Collection.filter", map[string]ValueNode{
		"collection": collection,
		"filter": Invoke("Filter.dateRangeContains", map[string]ValueNode{
			"leftValue":  DateRange(start, end),
			"rightField": Constant("system:time_start"),
		}),
	})
}

// AggregateArray returns the values of a property for all the elements of the collection, in order
func AggregateArray(collection ValueNode, property string) ValueNode {
	return Invoke("AggregateFeatureCollection.array", map[string]ValueNode{
		"collection": collection,
		"property":   Constant(property),
	})
}

// ImageLoad returns a node loading an image of the catalog
func ImageLoad(id string) ValueNode {
	return Invoke("Image.load", map[string]ValueNode{"id": Constant(id)})
}

// ImageToFloat casts all the bands of the image to float32
func ImageToFloat(image ValueNode) ValueNode {
	return Invoke("Image.toFloat", map[string]ValueNode{"value": image})
}

// ClipToBoundsAndScale clips the image to the geometry and resamples it to the scale (meters/pixel)
func ClipToBoundsAndScale(image, geometry ValueNode, scale float64) ValueNode {
	return Invoke("Image.clipToBoundsAndScale", map[string]ValueNode{
		"input":    image,
		"geometry": geometry,
		"scale":    Constant(scale),
	})
}

// Feature returns a feature without geometry
func Feature(properties map[string]string) ValueNode {
	metadata := map[string]ValueNode{}
	for k, v := range properties {
		metadata[k] = Constant(v)
	}
	return Invoke("Feature", map[string]ValueNode{
		"geometry": Constant(nil),
		"metadata": Dictionary(metadata),
	})
}

// FeatureCollection returns a collection of features
func FeatureCollection(features ...ValueNode) ValueNode {
	return Invoke("Collection", map[string]ValueNode{"features": Array(features...)})
}
