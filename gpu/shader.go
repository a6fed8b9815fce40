package gpu

// distanceShaderSource is a glgl combined source file: a single compute
// stage computing the squared distance from each point to its paired
// triangle, read from two input images and written to dist2.
//
// Layout mirrors the bindings EvaluatePairs sets up: image unit 0 holds
// one point per texel, image unit 1 holds three consecutive texels per
// triangle, image unit 2 receives one squared distance per texel.
const distanceShaderSource = `
//glgl:compute
#version 460 core

layout(local_size_x = 1, local_size_y = 1, local_size_z = 1) in;

layout(rgba32f, binding = 0) readonly uniform image2D points;
layout(rgba32f, binding = 1) readonly uniform image2D triangles;
layout(r32f, binding = 2) writeonly uniform image2D dist2;

vec3 closestOnTriangle(vec3 a, vec3 b, vec3 c, vec3 p) {
	vec3 ab = b - a;
	vec3 ac = c - a;
	vec3 ap = p - a;
	float d1 = dot(ab, ap);
	float d2 = dot(ac, ap);
	if (d1 <= 0.0 && d2 <= 0.0) {
		return a;
	}
	vec3 bp = p - b;
	float d3 = dot(ab, bp);
	float d4 = dot(ac, bp);
	if (d3 >= 0.0 && d4 <= d3) {
		return b;
	}
	float vc = d1 * d4 - d3 * d2;
	if (vc <= 0.0 && d1 >= 0.0 && d3 <= 0.0) {
		float v = d1 / (d1 - d3);
		return a + v * ab;
	}
	vec3 cp = p - c;
	float d5 = dot(ab, cp);
	float d6 = dot(ac, cp);
	if (d6 >= 0.0 && d5 <= d6) {
		return c;
	}
	float vb = d5 * d2 - d1 * d6;
	if (vb <= 0.0 && d2 >= 0.0 && d6 <= 0.0) {
		float w = d2 / (d2 - d6);
		return a + w * ac;
	}
	float va = d3 * d6 - d5 * d4;
	if (va <= 0.0 && (d4 - d3) >= 0.0 && (d5 - d6) >= 0.0) {
		float w = (d4 - d3) / ((d4 - d3) + (d5 - d6));
		return b + w * (c - b);
	}
	float denom = 1.0 / (va + vb + vc);
	float v = vb * denom;
	float w = vc * denom;
	return a + v * ab + w * ac;
}

void main() {
	int i = int(gl_GlobalInvocationID.x);
	vec3 p = imageLoad(points, ivec2(i, 0)).xyz;
	vec3 a = imageLoad(triangles, ivec2(3 * i, 0)).xyz;
	vec3 b = imageLoad(triangles, ivec2(3 * i + 1, 0)).xyz;
	vec3 c = imageLoad(triangles, ivec2(3 * i + 2, 0)).xyz;
	vec3 closest = closestOnTriangle(a, b, c, p);
	float d2 = dot(p - closest, p - closest);
	imageStore(dist2, ivec2(i, 0), vec4(d2, 0.0, 0.0, 0.0));
}
`
